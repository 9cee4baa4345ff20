package cli

import (
	"context"
	"fmt"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/models"
)

// Sync runs one reconciliation pass. The optional argument picks the
// resolution strategy ("local", "remote" or "manual"; empty falls back to
// last-write-wins) or toggles sync with "on"/"off".
func (a *App) Sync(ctx context.Context, arg string) error {
	switch arg {
	case "on", "off":
		enabled := arg == "on"
		if err := a.metadata.SetSyncEnabled(ctx, enabled); err != nil {
			return a.printErr(err)
		}
		fmt.Fprintf(a.out, "Sync %sabled\n", map[bool]string{true: "en", false: "dis"}[enabled])
		return nil
	case "", "local", "remote", "manual":
	default:
		fmt.Fprintln(a.out, "Usage: sync [local|remote|manual|on|off]")
		return nil
	}

	a.runSyncPass(ctx, models.ResolutionStrategy(arg), true)
	return nil
}

// runSyncPass executes the pass and, on success, pulls the merged
// snapshot back into the local replica so both sides converge. verbose
// selects between interactive output and the quiet background mode.
func (a *App) runSyncPass(ctx context.Context, strategy models.ResolutionStrategy, verbose bool) {
	md, err := a.metadata.Load(ctx)
	if err != nil {
		if verbose {
			_ = a.printErr(err)
		}
		return
	}
	if !md.SyncEnabled {
		if verbose {
			fmt.Fprintf(a.out, "%s (enable with 'sync on')\n", common.ErrSyncDisabled)
		}
		return
	}

	local, err := a.repos.Notes.GetAll(ctx)
	if err != nil {
		if verbose {
			_ = a.printErr(err)
		}
		return
	}

	result := a.sync.SyncNotes(ctx, local, strategy)

	if !result.Success {
		if verbose {
			for _, e := range result.Errors {
				fmt.Fprintf(a.out, "sync failed: %s\n", e.Message)
			}
		}
		return
	}

	if err := a.pullSnapshot(ctx); err != nil {
		if verbose {
			_ = a.printErr(err)
		}
		return
	}

	if verbose {
		fmt.Fprintf(a.out, "Synced %d note(s)\n", len(result.SyncedNotes))
		if len(result.Conflicts) > 0 {
			fmt.Fprintf(a.out, "%d conflict(s) queued for manual resolution (see 'conflicts')\n", len(result.Conflicts))
		}
	}
}

// pullSnapshot copies the merged remote snapshot into the local store.
func (a *App) pullSnapshot(ctx context.Context) error {
	snapshot, err := a.remote.GetAll(ctx)
	if err != nil {
		return err
	}
	for i := range snapshot {
		if err := a.repos.Notes.CreateOrUpdate(ctx, &snapshot[i]); err != nil {
			return err
		}
	}
	return nil
}

// Conflicts lists the queued conflicts awaiting manual resolution.
func (a *App) Conflicts(ctx context.Context) error {
	queued, err := a.repos.Conflicts.GetAll(ctx)
	if err != nil {
		return a.printErr(err)
	}

	if len(queued) == 0 {
		fmt.Fprintln(a.out, "No unresolved conflicts")
		return nil
	}

	for _, c := range queued {
		fmt.Fprintf(a.out, "%s  [%s]  detected %s\n", c.NoteID, c.Type, c.DetectedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(a.out, "  local:  %q updated %s\n", c.LocalNote.Title, c.LocalNote.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(a.out, "  remote: %q updated %s\n", c.RemoteNote.Title, c.RemoteNote.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Resolve finalizes one queued conflict with the side the user picks.
func (a *App) Resolve(ctx context.Context, id string) error {
	if id == "" {
		fmt.Fprintln(a.out, "Usage: resolve <id>")
		return nil
	}

	queued, err := a.repos.Conflicts.GetAll(ctx)
	if err != nil {
		return a.printErr(err)
	}

	var found *models.SyncConflict
	for i := range queued {
		if queued[i].NoteID == id {
			found = &queued[i]
			break
		}
	}
	if found == nil {
		fmt.Fprintf(a.out, "No queued conflict for note %s\n", id)
		return nil
	}

	choice, err := GetSimpleText(a.reader, "Keep which version? (local/remote)", a.out)
	if err != nil {
		return a.printErr(err)
	}

	var chosen models.Note
	switch choice {
	case "local":
		chosen = found.LocalNote
	case "remote":
		chosen = found.RemoteNote
	default:
		fmt.Fprintln(a.out, "Expected 'local' or 'remote'")
		return nil
	}

	if !a.sync.ResolveConflictManually(ctx, id, chosen) {
		fmt.Fprintln(a.out, "Failed to resolve conflict, see logs")
		return nil
	}

	// mirror the finalized note, sync stamps included, into the local replica
	final, err := a.remote.Get(ctx, id)
	if err != nil {
		return a.printErr(err)
	}
	if err := a.repos.Notes.CreateOrUpdate(ctx, final); err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Resolved conflict on note %s with the %s version\n", id, choice)
	return nil
}

// Status prints the sync metadata summary.
func (a *App) Status(ctx context.Context) error {
	md, err := a.metadata.Load(ctx)
	if err != nil {
		return a.printErr(err)
	}

	state := "enabled"
	if !md.SyncEnabled {
		state = "disabled"
	}
	fmt.Fprintf(a.out, "Sync:       %s\n", state)
	if md.LastSyncTime != nil {
		fmt.Fprintf(a.out, "Last sync:  %s\n", md.LastSyncTime.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(a.out, "Last sync:  never")
	}
	fmt.Fprintf(a.out, "Pending:    %d\n", md.PendingSyncCount)
	fmt.Fprintf(a.out, "Conflicts:  %d\n", md.ConflictCount)
	return nil
}

// Cleanup purges soft-deleted notes that aged past the retention window.
func (a *App) Cleanup(ctx context.Context) error {
	purged, err := a.sweeper.CleanupDeletedNotes(ctx)
	if err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Purged %d expired note(s)\n", purged)
	return nil
}
