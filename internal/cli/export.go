package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/avetrovs/notesync/internal/cryptox"
	"github.com/avetrovs/notesync/internal/models"
)

// exportFile is the on-disk envelope of an encrypted backup. The notes are
// sealed under a random data key; only the wrapped key depends on the
// passphrase. Byte fields are base64 in the JSON encoding.
type exportFile struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Verifier   []byte `json:"verifier"`
	WrappedKey []byte `json:"wrapped_key"`
	KeyNonce   []byte `json:"key_nonce"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

const exportFormatVersion = 1

// Export writes every local note, tombstones included, into a passphrase
// encrypted backup file.
func (a *App) Export(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Enter export file path", a.out)
	if err != nil {
		return a.printErr(err)
	}
	if path == "" {
		fmt.Fprintln(a.out, "Export cancelled: no path given")
		return nil
	}

	passphrase, err := GetPassphrase(a.out)
	if err != nil {
		return a.printErr(err)
	}

	notes, err := a.repos.Notes.GetAll(ctx)
	if err != nil {
		return a.printErr(err)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return a.printErr(err)
	}
	kek := cryptox.DeriveKey(passphrase, salt)

	key, err := cryptox.GenerateKey()
	if err != nil {
		return a.printErr(err)
	}
	wrapped, keyNonce, err := cryptox.WrapKey(key, kek)
	if err != nil {
		return a.printErr(err)
	}

	ciphertext, nonce, err := cryptox.Encrypt(notes, key)
	if err != nil {
		return a.printErr(err)
	}

	data, err := json.Marshal(exportFile{
		Version:    exportFormatVersion,
		Salt:       salt,
		Verifier:   cryptox.MakeVerifier(kek),
		WrappedKey: wrapped,
		KeyNonce:   keyNonce,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return a.printErr(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return a.printErr(err)
	}

	fmt.Fprintf(a.out, "Exported %d note(s) to %s\n", len(notes), path)
	return nil
}

// Import loads a backup file written by Export and upserts its notes into
// the local store. Existing notes with the same IDs are overwritten.
func (a *App) Import(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Enter import file path", a.out)
	if err != nil {
		return a.printErr(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return a.printErr(err)
	}

	var ef exportFile
	if err := json.Unmarshal(data, &ef); err != nil {
		return a.printErr(fmt.Errorf("not a valid export file: %w", err))
	}
	if ef.Version != exportFormatVersion {
		return a.printErr(fmt.Errorf("unsupported export format version %d", ef.Version))
	}

	passphrase, err := GetPassphrase(a.out)
	if err != nil {
		return a.printErr(err)
	}

	kek := cryptox.DeriveKey(passphrase, ef.Salt)
	if !bytes.Equal(cryptox.MakeVerifier(kek), ef.Verifier) {
		fmt.Fprintln(a.out, "Wrong passphrase")
		return nil
	}

	key, err := cryptox.UnwrapKey(ef.WrappedKey, ef.KeyNonce, kek)
	if err != nil {
		return a.printErr(err)
	}

	var notes []models.Note
	if err := cryptox.Decrypt(ef.Ciphertext, ef.Nonce, key, &notes); err != nil {
		return a.printErr(err)
	}

	for i := range notes {
		if err := a.repos.Notes.CreateOrUpdate(ctx, &notes[i]); err != nil {
			return a.printErr(err)
		}
	}

	fmt.Fprintf(a.out, "Imported %d note(s) from %s\n", len(notes), path)
	return a.refreshPending(ctx)
}
