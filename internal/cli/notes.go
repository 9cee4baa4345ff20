package cli

import (
	"context"
	"fmt"

	"github.com/avetrovs/notesync/internal/models"
)

// AddNote interactively creates a note and stores it locally with pending
// sync status.
func (a *App) AddNote(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return a.printErr(err)
	}

	content, err := GetMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return a.printErr(err)
	}

	tags, err := GetTags(a.reader, a.out)
	if err != nil {
		return a.printErr(err)
	}

	n := models.NewNote(title, content, tags, a.now().UTC())
	if err := a.repos.Notes.CreateOrUpdate(ctx, n); err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Created note %s (%d words)\n", n.ID, n.WordCount)
	return a.refreshPending(ctx)
}

// List prints the active notes, most recently updated first.
func (a *App) List(ctx context.Context) error {
	notes, err := a.repos.Notes.List(ctx)
	if err != nil {
		return a.printErr(err)
	}

	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes yet")
		return nil
	}

	for _, n := range notes {
		fmt.Fprintf(a.out, "%s  [%s]  %s (v%d, %d words)\n",
			n.ID, n.SyncStatus, n.Title, n.Version, n.WordCount)
	}
	return nil
}

// Show prints one note in full.
func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: show <id>")
		return nil
	}

	n, err := a.repos.Notes.Get(ctx, id)
	if err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Title:   %s\n", n.Title)
	fmt.Fprintf(a.out, "Tags:    %v\n", n.Tags)
	fmt.Fprintf(a.out, "Updated: %s (version %d, %d words)\n",
		n.UpdatedAt.Format("2006-01-02 15:04:05"), n.Version, n.WordCount)
	fmt.Fprintf(a.out, "Status:  %s\n", n.SyncStatus)
	if n.Deleted() {
		fmt.Fprintf(a.out, "Deleted: %s\n", n.DeletedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(a.out, "---")
	fmt.Fprintln(a.out, n.Content)
	return nil
}

// Edit replaces a note's title and content; empty input keeps the current
// value. The note is stamped as a fresh local edit.
func (a *App) Edit(ctx context.Context, id string) error {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: edit <id>")
		return nil
	}

	n, err := a.repos.Notes.Get(ctx, id)
	if err != nil {
		return a.printErr(err)
	}

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Enter title (empty keeps %q)", n.Title), a.out)
	if err != nil {
		return a.printErr(err)
	}
	if title != "" {
		n.Title = title
	}

	content, err := GetMultiline(a.reader, "Enter note text (empty keeps current)", a.out)
	if err != nil {
		return a.printErr(err)
	}
	if content != "" {
		n.Content = content
	}

	n.Touch(a.now().UTC())
	if err := a.repos.Notes.CreateOrUpdate(ctx, n); err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Updated note %s (version %d)\n", n.ID, n.Version)
	return a.refreshPending(ctx)
}

// Remove soft-deletes a note. The record stays addressable as a tombstone
// until the retention sweep purges it.
func (a *App) Remove(ctx context.Context, id string) error {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: rm <id>")
		return nil
	}

	if err := a.repos.Notes.Delete(ctx, id, a.now().UTC()); err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Deleted note %s\n", id)
	return a.refreshPending(ctx)
}

// refreshPending recounts the notes awaiting upload and stores the count
// in the sync metadata.
func (a *App) refreshPending(ctx context.Context) error {
	all, err := a.repos.Notes.GetAll(ctx)
	if err != nil {
		return a.printErr(err)
	}

	pending := 0
	for _, n := range all {
		if n.SyncStatus == models.SyncStatusPending {
			pending++
		}
	}
	if err := a.metadata.SetPendingSyncCount(ctx, pending); err != nil {
		return a.printErr(err)
	}
	return nil
}

func (a *App) printErr(err error) error {
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}
