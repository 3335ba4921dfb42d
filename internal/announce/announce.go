// Package announce speaks a scheduled daily agenda summary, the one
// in-app reminder the design keeps (alarm duty is otherwise handed off
// to the phone calendar).
package announce

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DCParty/senior-scheduler/internal/speech"
	"github.com/DCParty/senior-scheduler/internal/store"
	"github.com/DCParty/senior-scheduler/internal/view"
)

type Announcer struct {
	c  *cron.Cron
	st store.Store
	sp *speech.Speaker
}

// New schedules the summary at spec (cron syntax, e.g. "0 8 * * *").
func New(st store.Store, sp *speech.Speaker, spec string) (*Announcer, error) {
	a := &Announcer{c: cron.New(), st: st, sp: sp}
	if _, err := a.c.AddFunc(spec, a.speakSummary); err != nil {
		return nil, fmt.Errorf("bad summary schedule %q: %w", spec, err)
	}
	return a, nil
}

func (a *Announcer) Start() { a.c.Start() }

func (a *Announcer) Stop() {
	ctx := a.c.Stop()
	<-ctx.Done()
}

// SpeakNow announces the day's agenda immediately.
func (a *Announcer) SpeakNow() { a.speakSummary() }

func (a *Announcer) speakSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := a.st.List(ctx)
	if err != nil {
		log.Printf("announce: list failed: %v", err)
		return
	}
	todayCount, _ := view.Counts(list, time.Now())
	a.sp.Speak(fmt.Sprintf("今天有 %d 個行程", todayCount))
}
