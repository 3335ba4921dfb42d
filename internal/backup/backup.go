// Package backup moves the whole collection between phones as one
// JSON blob: export to the clipboard, import with a confirmed
// destructive replace.
package backup

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/store"
)

// ErrDeclined reports that the user did not confirm the overwrite.
var ErrDeclined = errors.New("restore declined")

// ConfirmFunc asks the user before a destructive effect; the core only
// requires that confirmation happens, not how it is presented.
type ConfirmFunc func(prompt string) bool

// Export serializes the collection in the same JSON shape the durable
// slot uses.
func Export(list []model.Appointment) (string, error) {
	raw, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Copy places the blob on the clipboard. When the system clipboard is
// unavailable it falls back to an OSC 52 escape on w (the terminal
// emulator's clipboard hook). Best effort either way.
func Copy(w io.Writer, data string) error {
	if err := clipboard.WriteAll(data); err == nil {
		return nil
	}
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintf(w, "\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(data)))
	return err
}

// Import parses a backup blob. Anything that is not a JSON array of
// records fails with store.ErrFormat and no other effect. The array
// check is explicit: a top-level null also unmarshals into a slice,
// but it is not a sequence and must not wipe the collection.
func Import(blob string) ([]model.Appointment, error) {
	dec := json.NewDecoder(strings.NewReader(blob))
	tok, err := dec.Token()
	if err != nil {
		return nil, store.ErrFormat
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, store.ErrFormat
	}
	var list []model.Appointment
	if err := json.Unmarshal([]byte(blob), &list); err != nil {
		return nil, store.ErrFormat
	}
	for i := range list {
		list[i].Type = model.NormalizeType(list[i].Type)
	}
	return list, nil
}

// Restore replaces the whole collection with the blob's content after
// the user confirms. No merge; the previous collection is gone.
func Restore(ctx context.Context, dst store.Replacer, blob string, confirm ConfirmFunc) error {
	list, err := Import(blob)
	if err != nil {
		return err
	}
	if !confirm("確定要匯入這些資料嗎？目前的資料將會被覆蓋喔。") {
		return ErrDeclined
	}
	return dst.Replace(ctx, list)
}
