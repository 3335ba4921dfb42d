package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/DCParty/senior-scheduler/internal/announce"
	"github.com/DCParty/senior-scheduler/internal/backup"
	"github.com/DCParty/senior-scheduler/internal/calendar"
	"github.com/DCParty/senior-scheduler/internal/config"
	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/rpc"
	"github.com/DCParty/senior-scheduler/internal/speech"
	"github.com/DCParty/senior-scheduler/internal/store"
	"github.com/DCParty/senior-scheduler/internal/view"
)

// runCLI parses CLI subcommands. Returns (handled, exitCode).
func runCLI(args []string) (bool, int) {
	if len(args) == 0 {
		return false, 0
	}
	switch args[0] {
	case "help", "-h", "--help":
		printHelp()
		return true, 0
	case "list":
		return true, cliList(args[1:])
	case "today":
		return true, cliToday(args[1:])
	case "add":
		return true, cliAdd(args[1:])
	case "delete":
		return true, cliDelete(args[1:])
	case "speak":
		return true, cliSpeak(args[1:])
	case "calendar":
		return true, cliCalendar(args[1:])
	case "ics":
		return true, cliICS(args[1:])
	case "export":
		return true, cliExport(args[1:])
	case "import":
		return true, cliImport(args[1:])
	case "login":
		return true, cliLogin(args[1:])
	case "logout":
		return true, cliLogout(args[1:])
	case "whoami":
		return true, cliWhoami(args[1:])
	case "register":
		return true, cliRegister(args[1:])
	case "watch":
		return true, cliWatch(args[1:])
	case "demo":
		return true, cliDemo(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		return false, 0
	}
}

func printHelp() {
	fmt.Print(`樂齡貼身秘書 reminder

Usage:
  reminder <command> [flags]

Commands:
  list      show the coming week (use -all for everything)
  today     show today's schedule
  add       add an appointment (-title -date -time -type)
  delete    delete an appointment by id
  speak     read an appointment (or today's summary) aloud
  calendar  print a Google Calendar link for an appointment
  ics       print an iCalendar event for an appointment
  export    print a backup blob and copy it to the clipboard
  import    restore a backup blob from stdin (or -f file)
  login     sign in (mock and remote backends)
  logout    sign out
  whoami    show the signed-in identity
  register  create a remote account
  watch     follow live updates and speak a daily summary
  demo      seed a few sample appointments
  help      show this help

Common flags:
  -config   path to config.yaml (default per-user)
`)
}

// app bundles what every subcommand needs: config, the slot store
// and the backend picked by cfg.Backend.
type app struct {
	cfg    *config.Config
	db     *kv.DB
	client *rpc.Client
	st     store.Store
	auth   store.Authenticator
	sp     *speech.Speaker
}

func newApp(configPath string) (*app, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	db, err := kv.Open(filepath.Join(dir, "slots.db"))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, db: db, sp: speech.New(cfg.SpeechCommand)}
	switch cfg.Backend {
	case config.BackendLocal:
		a.st, err = store.NewLocal(db)
	case config.BackendMock:
		var m *store.Mock
		m, err = store.NewMock(db)
		a.st, a.auth = m, m
	case config.BackendRemote:
		a.client, err = rpc.Dial(cfg.ServerAddr)
		if err == nil {
			var r *store.Remote
			r, err = store.NewRemote(a.client, db)
			a.st, a.auth = r, r
		}
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		db.Close()
		if a.client != nil {
			a.client.Close()
		}
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.client != nil {
		a.client.Close()
	}
	a.db.Close()
}

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "config file path")
}

func fail(err error) int {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated):
		fmt.Fprintln(os.Stderr, "請先登入。")
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintln(os.Stderr, "找不到這個行程。")
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}

func formatLine(a model.Appointment, today time.Time) string {
	return fmt.Sprintf("%-10s %s  %s %s  [%s]  %s",
		view.FriendlyDate(a.Date, today), a.Time,
		model.TypeIcon(a.Type), a.Title, model.TypeLabel(a.Type), a.ID)
}

// findAppointment matches an exact id or a unique prefix, so short
// ids copied from list output work.
func findAppointment(list []model.Appointment, id string) (model.Appointment, error) {
	var match model.Appointment
	n := 0
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
		if strings.HasPrefix(a.ID, id) {
			match = a
			n++
		}
	}
	switch n {
	case 1:
		return match, nil
	case 0:
		return model.Appointment{}, store.ErrNotFound
	default:
		return model.Appointment{}, fmt.Errorf("id %q matches %d appointments", id, n)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N] ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func cliList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	all := fs.Bool("all", false, "show every appointment, not just the coming week")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	renderList(os.Stdout, list, time.Now(), *all)
	return 0
}

// renderList prints the week (or full) view. The today/tomorrow counts
// always come from the unfiltered collection, whatever view is shown.
func renderList(w io.Writer, list []model.Appointment, now time.Time, showAll bool) {
	sorted := view.Sort(list)
	shown := sorted
	if !showAll {
		shown = view.FilterWeek(sorted, now)
	}
	if len(shown) == 0 {
		fmt.Fprintln(w, "這週沒有行程，好好休息喔。")
	} else {
		for _, a := range shown {
			fmt.Fprintln(w, formatLine(a, now))
		}
	}
	todayCount, tomorrowCount := view.Counts(sorted, now)
	fmt.Fprintf(w, "\n今天 %d 個行程，明天 %d 個。\n", todayCount, tomorrowCount)
}

func cliToday(args []string) int {
	fs := flag.NewFlagSet("today", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	now := time.Now()
	date := now.Format("2006-01-02")
	shown := 0
	for _, appt := range view.Sort(list) {
		if appt.Date != date {
			continue
		}
		fmt.Println(formatLine(appt, now))
		shown++
	}
	if shown == 0 {
		fmt.Println("今天沒有行程。")
	}
	return 0
}

func cliAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	title := fs.String("title", "", "what the appointment is")
	date := fs.String("date", "", "YYYY-MM-DD")
	timeStr := fs.String("time", "", "HH:MM")
	typ := fs.String("type", "other", "appointment category, see reminder help")
	quiet := fs.Bool("quiet", false, "skip the spoken confirmation")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	created, err := a.st.Create(context.Background(), model.Draft{
		Title: strings.TrimSpace(*title),
		Date:  *date,
		Time:  *timeStr,
		Type:  model.NormalizeType(model.ApptType(*typ)),
	})
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(os.Stderr, "欄位不對: %v (日期 YYYY-MM-DD、時間 HH:MM)\n", ve)
			return 2
		}
		return fail(err)
	}
	fmt.Println("新增成功:")
	fmt.Println(formatLine(created, time.Now()))
	fmt.Println("\n要加進手機日曆的話，點這個連結:")
	fmt.Println(calendar.GoogleLink(created))
	if !*quiet {
		a.sp.Speak("新增成功。請問要加入手機日曆提醒嗎？")
	}
	return 0
}

func cliDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	yes := fs.Bool("y", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: reminder delete [-y] <id>")
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	ctx := context.Background()
	list, err := a.st.List(ctx)
	if err != nil {
		return fail(err)
	}
	target, err := findAppointment(list, fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if !*yes && !confirm(fmt.Sprintf("確定要刪除「%s」這個行程嗎？", target.Title)) {
		fmt.Println("沒有刪除。")
		return 0
	}
	if err := a.st.Delete(ctx, target.ID); err != nil {
		return fail(err)
	}
	fmt.Println("行程已刪除。")
	a.sp.Speak("行程已刪除")
	return 0
}

func cliSpeak(args []string) int {
	fs := flag.NewFlagSet("speak", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	now := time.Now()
	if fs.NArg() == 0 {
		// No id: speak the daily summary instead.
		list, err := a.st.List(context.Background())
		if err != nil {
			return fail(err)
		}
		today, _ := view.Counts(list, now)
		text := fmt.Sprintf("今天有 %d 個行程", today)
		fmt.Println(text)
		a.sp.Speak(text)
		waitForSpeech()
		return 0
	}
	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	target, err := findAppointment(list, fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	text := view.Announcement(target, now)
	fmt.Println(text)
	a.sp.Speak(text)
	waitForSpeech()
	return 0
}

// waitForSpeech gives the external TTS process a moment to finish
// before the CLI exits and the process group goes away.
func waitForSpeech() {
	time.Sleep(200 * time.Millisecond)
}

func cliCalendar(args []string) int {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: reminder calendar <id>")
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	target, err := findAppointment(list, fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	fmt.Println(calendar.GoogleLink(target))
	return 0
}

func cliICS(args []string) int {
	fs := flag.NewFlagSet("ics", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	out := fs.String("o", "", "write to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: reminder ics [-o file] <id>")
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	target, err := findAppointment(list, fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	ics, err := calendar.ICS(target)
	if err != nil {
		return fail(err)
	}
	if *out == "" {
		fmt.Print(ics)
		return 0
	}
	if err := os.WriteFile(*out, []byte(ics), 0o644); err != nil {
		return fail(err)
	}
	fmt.Printf("已寫入 %s\n", *out)
	return 0
}

func cliExport(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	list, err := a.st.List(context.Background())
	if err != nil {
		return fail(err)
	}
	blob, err := backup.Export(list)
	if err != nil {
		return fail(err)
	}
	fmt.Println(blob)
	if err := backup.Copy(os.Stderr, blob); err == nil {
		fmt.Fprintln(os.Stderr, "資料已複製，請貼上給新手機。")
		a.sp.Speak("資料已複製，請貼上給新手機")
	}
	return 0
}

func cliImport(args []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	yes := fs.Bool("y", false, "skip the confirmation prompt")
	file := fs.String("f", "", "read the blob from a file instead of stdin")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	var blob []byte
	if *file != "" {
		blob, err = os.ReadFile(*file)
	} else {
		blob, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fail(err)
	}
	dst, ok := a.st.(store.Replacer)
	if !ok {
		fmt.Fprintln(os.Stderr, "這個模式不支援匯入，請切換到本機模式。")
		return 1
	}
	prompt := func(text string) bool {
		return *yes || confirm(text)
	}
	if err := backup.Restore(context.Background(), dst, string(blob), prompt); err != nil {
		if errors.Is(err, backup.ErrDeclined) {
			fmt.Println("沒有匯入。")
			return 0
		}
		if errors.Is(err, store.ErrFormat) {
			fmt.Fprintln(os.Stderr, "資料格式錯誤，請確認貼上的內容。")
			return 1
		}
		return fail(err)
	}
	fmt.Println("資料還原成功。")
	a.sp.Speak("資料還原成功")
	return 0
}

func cliLogin(args []string) int {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if a.auth == nil {
		fmt.Println("本機模式不需要登入。")
		return 0
	}
	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: reminder login -email <email> [-password <password>]")
		return 2
	}
	id, err := a.auth.SignIn(context.Background(), *email, *password)
	if err != nil {
		var ae *store.AuthError
		if errors.As(err, &ae) {
			fmt.Fprintf(os.Stderr, "登入失敗: %s\n", ae.Reason)
			return 1
		}
		return fail(err)
	}
	fmt.Printf("%s 您好！\n", id.DisplayName)
	return 0
}

func cliLogout(args []string) int {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if a.auth == nil {
		fmt.Println("本機模式不需要登入。")
		return 0
	}
	if err := a.auth.SignOut(context.Background()); err != nil {
		return fail(err)
	}
	fmt.Println("已登出。")
	return 0
}

func cliWhoami(args []string) int {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if a.auth == nil {
		fmt.Println("本機模式，不用登入。")
		return 0
	}
	id, ok := a.auth.Identity()
	if !ok {
		fmt.Println("尚未登入。")
		return 1
	}
	fmt.Printf("%s <%s>\n", id.DisplayName, id.Email)
	return 0
}

func cliRegister(args []string) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (8 characters or more)")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	r, ok := a.st.(*store.Remote)
	if !ok {
		fmt.Fprintln(os.Stderr, "只有遠端模式需要註冊。")
		return 1
	}
	if *email == "" || *password == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "usage: reminder register -email <email> -password <password> -name <name>")
		return 2
	}
	id, err := r.Register(context.Background(), *email, *password, *name)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("註冊成功，%s 您好！\n", id.DisplayName)
	return 0
}

func cliWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	unsubscribe, err := a.st.Subscribe(context.Background(), func(list []model.Appointment) {
		now := time.Now()
		fmt.Printf("--- %s ---\n", now.Format("15:04:05"))
		week := view.FilterWeek(list, now)
		if len(week) == 0 {
			fmt.Println("這週沒有行程。")
			return
		}
		for _, appt := range week {
			fmt.Println(formatLine(appt, now))
		}
	})
	if err != nil {
		return fail(err)
	}
	defer unsubscribe()

	ann, err := announce.New(a.st, a.sp, a.cfg.SummaryCron)
	if err != nil {
		return fail(err)
	}
	ann.Start()
	defer ann.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	fmt.Println()
	return 0
}

func cliDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	cfgPath := configFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	a, err := newApp(*cfgPath)
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	now := time.Now()
	drafts := []model.Draft{
		{Title: "心臟科回診", Date: now.Format("2006-01-02"), Time: "09:00", Type: model.TypeMedical},
		{Title: "社區散步", Date: now.Format("2006-01-02"), Time: "16:30", Type: model.TypeActivity},
		{Title: "跟孫子視訊", Date: now.AddDate(0, 0, 1).Format("2006-01-02"), Time: "20:00", Type: model.TypeFamily},
	}
	ctx := context.Background()
	for _, d := range drafts {
		created, err := a.st.Create(ctx, d)
		if err != nil {
			return fail(err)
		}
		fmt.Println(formatLine(created, now))
	}
	return 0
}
