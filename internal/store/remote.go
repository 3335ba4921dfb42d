package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/rpc"
	"github.com/DCParty/senior-scheduler/internal/view"
)

var errEmptyResponse = errors.New("empty response")

// session is the durable sign-in state cached in the session slot.
type session struct {
	Token    string         `json:"token"`
	OwnerID  string         `json:"ownerId"`
	Identity model.Identity `json:"identity"`
}

// Remote is the cloud-synced adapter: every operation is an
// authenticated call against the sync backend, scoped server-side to
// the signed-in owner. The identity token survives restarts in the
// session slot.
type Remote struct {
	client *rpc.Client
	db     *kv.DB

	mu      sync.Mutex
	sess    *session
	cancels map[int]context.CancelFunc
	nextSub int
}

func NewRemote(client *rpc.Client, db *kv.DB) (*Remote, error) {
	r := &Remote{client: client, db: db, cancels: make(map[int]context.CancelFunc)}
	raw, ok, err := db.Get(slotSession)
	if err != nil {
		return nil, err
	}
	if ok {
		var s session
		if jerr := json.Unmarshal([]byte(raw), &s); jerr == nil && s.Token != "" {
			r.sess = &s
		}
	}
	return r, nil
}

// authCtx attaches the bearer token, or reports ErrNotAuthenticated
// before any network call is issued.
func (r *Remote) authCtx(ctx context.Context) (context.Context, error) {
	r.mu.Lock()
	sess := r.sess
	r.mu.Unlock()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+sess.Token), nil
}

// mapError translates gRPC status codes back into the adapter's error
// taxonomy.
func mapError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &NetworkError{Op: op, Err: err}
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrNotAuthenticated
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return &ValidationError{Field: st.Message()}
	default:
		return &NetworkError{Op: op, Err: err}
	}
}

func fromWire(a *rpc.Appointment) model.Appointment {
	out := model.Appointment{
		ID:      a.Id,
		Title:   a.Title,
		Date:    a.Date,
		Time:    a.Time,
		Type:    model.NormalizeType(model.ApptType(a.Type)),
		OwnerID: a.OwnerId,
	}
	if a.CreatedAt != nil {
		out.CreatedAt = a.CreatedAt.AsTime()
	}
	return out
}

func fromWireList(list []*rpc.Appointment) []model.Appointment {
	out := make([]model.Appointment, 0, len(list))
	for _, a := range list {
		if a != nil {
			out = append(out, fromWire(a))
		}
	}
	return out
}

func (r *Remote) List(ctx context.Context) ([]model.Appointment, error) {
	ctx, err := r.authCtx(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.ListAppointments(ctx, &rpc.ListAppointmentsRequest{})
	if err != nil {
		return nil, mapError("list", err)
	}
	return fromWireList(resp.Appointments), nil
}

func (r *Remote) Create(ctx context.Context, d model.Draft) (model.Appointment, error) {
	if err := validate(d); err != nil {
		return model.Appointment{}, err
	}
	ctx, err := r.authCtx(ctx)
	if err != nil {
		return model.Appointment{}, err
	}
	resp, err := r.client.CreateAppointment(ctx, &rpc.CreateAppointmentRequest{
		Title: d.Title,
		Date:  d.Date,
		Time:  d.Time,
		Type:  string(model.NormalizeType(d.Type)),
	})
	if err != nil {
		return model.Appointment{}, mapError("create", err)
	}
	if resp.Appointment == nil {
		return model.Appointment{}, &NetworkError{Op: "create", Err: errEmptyResponse}
	}
	return fromWire(resp.Appointment), nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	ctx, err := r.authCtx(ctx)
	if err != nil {
		return err
	}
	if _, err := r.client.DeleteAppointment(ctx, &rpc.DeleteAppointmentRequest{Id: id}); err != nil {
		return mapError("delete", err)
	}
	return nil
}

// Subscribe opens the backend live query. Each push carries the full
// owner collection; the adapter re-sorts and forwards it. The returned
// function (and SignOut) tears the stream down.
func (r *Remote) Subscribe(ctx context.Context, fn SnapshotFunc) (func(), error) {
	authed, err := r.authCtx(ctx)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(authed)
	reader, err := r.client.Subscribe(streamCtx, &rpc.SubscribeRequest{})
	if err != nil {
		cancel()
		return nil, mapError("subscribe", err)
	}

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.cancels[id] = cancel
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			snap, err := reader.Recv()
			if err != nil {
				return
			}
			fn(view.Sort(fromWireList(snap.Appointments)))
		}
	}()

	return func() {
		r.mu.Lock()
		delete(r.cancels, id)
		r.mu.Unlock()
		cancel()
		<-done
	}, nil
}

func (r *Remote) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	if email == "" || password == "" {
		return model.Identity{}, &AuthError{Reason: "email and password required"}
	}
	resp, err := r.client.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		st, ok := status.FromError(err)
		if ok && (st.Code() == codes.Unauthenticated || st.Code() == codes.InvalidArgument) {
			return model.Identity{}, &AuthError{Reason: st.Message()}
		}
		return model.Identity{}, &NetworkError{Op: "sign-in", Err: err}
	}

	sess := session{
		Token:   resp.Token,
		OwnerID: resp.UserId,
		Identity: model.Identity{
			DisplayName: resp.DisplayName,
			Email:       resp.Email,
			AvatarRef:   resp.AvatarRef,
		},
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return model.Identity{}, err
	}
	if err := r.db.Put(slotSession, string(raw)); err != nil {
		return model.Identity{}, err
	}

	r.mu.Lock()
	r.sess = &sess
	r.mu.Unlock()
	return sess.Identity, nil
}

// SignOut tears down any live subscription before clearing the cached
// identity, so a stale push can never repopulate the collection after
// logout.
func (r *Remote) SignOut(ctx context.Context) error {
	r.mu.Lock()
	cancels := r.cancels
	r.cancels = make(map[int]context.CancelFunc)
	r.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}

	if err := r.db.Delete(slotSession); err != nil {
		return err
	}
	r.mu.Lock()
	r.sess = nil
	r.mu.Unlock()
	return nil
}

func (r *Remote) Identity() (model.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sess == nil {
		return model.Identity{}, false
	}
	return r.sess.Identity, true
}

// Register provisions an account on the backend and signs in with it.
func (r *Remote) Register(ctx context.Context, email, password, name string) (model.Identity, error) {
	if email == "" || password == "" || name == "" {
		return model.Identity{}, &AuthError{Reason: "email, password and name required"}
	}
	if _, err := r.client.Register(ctx, &rpc.RegisterRequest{Email: email, Password: password, Name: name}); err != nil {
		st, ok := status.FromError(err)
		if ok && (st.Code() == codes.AlreadyExists || st.Code() == codes.InvalidArgument) {
			return model.Identity{}, &AuthError{Reason: st.Message()}
		}
		return model.Identity{}, &NetworkError{Op: "register", Err: err}
	}
	return r.SignIn(ctx, email, password)
}
