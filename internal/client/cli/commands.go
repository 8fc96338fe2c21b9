package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mkorobov/passdash/internal/client/gateway"
	"github.com/mkorobov/passdash/internal/client/models"
	"github.com/mkorobov/passdash/internal/client/store"
)

func parseEntryID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn("Entry id must be a number:", arg)
		return 0, err
	}
	return id, nil
}

// List prints the entries visible under the current filter.
func (a *App) List(ctx context.Context) error {
	switch a.store.EmptyState() {
	case store.EmptyVault:
		printlnFn("No passwords yet. Use 'add' to create one.")
		return nil
	case store.EmptyFiltered:
		printlnFn("No passwords match the current filter.")
		return nil
	}

	for _, e := range a.store.Project() {
		printlnFn(fmt.Sprintf("%4d  %-24s %-20s %s", e.ID, e.Title, e.Username, e.Category))
	}
	return nil
}

// Search sets the free-text filter; an empty text clears it.
func (a *App) Search(ctx context.Context, text string) error {
	a.store.SetSearch(text)
	return a.List(ctx)
}

// Category sets the category filter.
func (a *App) Category(ctx context.Context, name string) error {
	a.store.SetCategory(name)
	return a.List(ctx)
}

// Categories prints the category set of the current collection.
func (a *App) Categories(ctx context.Context) error {
	for _, c := range a.store.Categories() {
		printlnFn(c)
	}
	return nil
}

// websiteDisplay marks websites that are openable links so the user knows
// the value can be pasted into a browser as-is.
func websiteDisplay(e models.CredentialEntry) string {
	if e.HasWebsiteLink() {
		return e.Website + "  (link)"
	}
	return e.Website
}

// View shows one entry with the secret masked.
func (a *App) View(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Viewer.Open(id); err != nil {
		return err
	}
	defer a.flows.Viewer.Close()

	e, _ := a.flows.Viewer.Entry()
	printlnFn("Title:    ", e.Title)
	printlnFn("Website:  ", websiteDisplay(e))
	printlnFn("Username: ", e.Username)
	printlnFn("Password:  ********")
	printlnFn("Category: ", e.Category)
	if e.Notes != "" {
		printlnFn("Notes:    ", e.Notes)
	}
	return nil
}

// Add creates an entry through interactive prompts.
func (a *App) Add(ctx context.Context) error {
	a.flows.Editor.OpenAdd()

	form := a.flows.Editor.Form()
	var err error
	if form.Title, err = GetSimpleText(a.reader, "Title", os.Stdout); err != nil {
		return err
	}
	if form.Website, err = GetSimpleText(a.reader, "Website", os.Stdout); err != nil {
		return err
	}
	if form.Username, err = GetSimpleText(a.reader, "Username", os.Stdout); err != nil {
		return err
	}
	if form.Category, err = GetSimpleText(a.reader, "Category", os.Stdout); err != nil {
		return err
	}
	if form.Notes, err = GetSimpleText(a.reader, "Notes", os.Stdout); err != nil {
		return err
	}
	a.flows.Editor.SetForm(form)

	generate, err := GetConfirmation(a.reader, "Generate a password?", os.Stdout)
	if err != nil {
		return err
	}
	if generate {
		if err := a.flows.Editor.GenerateSecret(ctx); err != nil {
			a.flows.Editor.Cancel()
			return err
		}
	} else {
		pw, err := GetPassword(os.Stdout)
		if err != nil {
			return err
		}
		form = a.flows.Editor.Form()
		form.Secret = string(pw)
		a.flows.Editor.SetForm(form)
	}

	if err := a.flows.Editor.Submit(ctx); err != nil {
		a.flows.Editor.Cancel()
		return err
	}
	return nil
}

// Edit updates an entry; pressing Enter keeps a field's current value.
func (a *App) Edit(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Editor.OpenEdit(id); err != nil {
		return err
	}
	if err := a.flows.Editor.LoadSecret(ctx); err != nil {
		a.flows.Editor.Cancel()
		return err
	}

	form := a.flows.Editor.Form()
	if form.Title, err = GetTextWithDefault(a.reader, "Title", form.Title, os.Stdout); err != nil {
		return err
	}
	if form.Website, err = GetTextWithDefault(a.reader, "Website", form.Website, os.Stdout); err != nil {
		return err
	}
	if form.Username, err = GetTextWithDefault(a.reader, "Username", form.Username, os.Stdout); err != nil {
		return err
	}
	if form.Category, err = GetTextWithDefault(a.reader, "Category", form.Category, os.Stdout); err != nil {
		return err
	}
	if form.Notes, err = GetTextWithDefault(a.reader, "Notes", form.Notes, os.Stdout); err != nil {
		return err
	}
	a.flows.Editor.SetForm(form)

	change, err := GetConfirmation(a.reader, "Change the password?", os.Stdout)
	if err != nil {
		return err
	}
	if change {
		pw, err := GetPassword(os.Stdout)
		if err != nil {
			return err
		}
		form = a.flows.Editor.Form()
		form.Secret = string(pw)
		a.flows.Editor.SetForm(form)
	}

	if err := a.flows.Editor.Submit(ctx); err != nil {
		a.flows.Editor.Cancel()
		return err
	}
	return nil
}

// Delete removes an entry after confirmation.
func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Viewer.Open(id); err != nil {
		return err
	}
	a.flows.Viewer.RequestDelete()
	return a.confirmPending(ctx)
}

// confirmPending resolves the open confirmation overlay interactively.
func (a *App) confirmPending(ctx context.Context) error {
	title, message, open := a.flows.Confirm.Prompt()
	if !open {
		return nil
	}
	printlnFn(title)
	yes, err := GetConfirmation(a.reader, message, os.Stdout)
	if err != nil {
		return err
	}
	if !yes {
		a.flows.Confirm.Cancel()
		return nil
	}
	return a.flows.Confirm.Do(ctx)
}

// Reveal prints the entry's plaintext secret.
func (a *App) Reveal(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Viewer.Open(id); err != nil {
		return err
	}
	defer a.flows.Viewer.Close()

	value, err := a.flows.Viewer.RevealSecret(ctx)
	if err != nil {
		return err
	}
	printlnFn("Password:", value)
	return nil
}

// Copy puts the entry's secret on the clipboard with timed retraction.
func (a *App) Copy(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Viewer.Open(id); err != nil {
		return err
	}
	defer a.flows.Viewer.Close()
	return a.flows.Viewer.CopySecret(ctx)
}

// CopyUsername copies the entry's username, no timed retraction.
func (a *App) CopyUsername(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	if err := a.flows.Viewer.Open(id); err != nil {
		return err
	}
	defer a.flows.Viewer.Close()
	return a.flows.Viewer.CopyUsername()
}

// Generate produces a password with the current generator options.
func (a *App) Generate(ctx context.Context) error {
	if err := a.flows.Generator.Generate(ctx); err != nil {
		return err
	}
	password, _, label := a.flows.Generator.Result()
	printlnFn("Generated:", password, fmt.Sprintf("(%s)", label))

	copyIt, err := GetConfirmation(a.reader, "Copy to clipboard?", os.Stdout)
	if err != nil {
		return err
	}
	if copyIt {
		return a.flows.Generator.Copy()
	}
	return nil
}

// Share creates a share link for an entry through interactive prompts.
func (a *App) Share(ctx context.Context, arg string) error {
	id, err := parseEntryID(arg)
	if err != nil {
		return err
	}
	entry, err := a.store.Entry(id)
	if err != nil {
		a.notify.Error("Password entry no longer exists.")
		return err
	}

	a.flows.Share.Open(entry.ID, entry.Title)
	defer a.flows.Share.Close()

	hoursText, err := GetTextWithDefault(a.reader, "Expires in hours (1, 24, 72, 168)", "24", os.Stdout)
	if err != nil {
		return err
	}
	hours, err := strconv.Atoi(hoursText)
	if err != nil {
		printlnFn("Expiry must be a number of hours:", hoursText)
		return err
	}
	limitText, err := GetTextWithDefault(a.reader, "Access limit (0 = unlimited)", "0", os.Stdout)
	if err != nil {
		return err
	}
	limit, err := strconv.Atoi(limitText)
	if err != nil {
		printlnFn("Access limit must be a number:", limitText)
		return err
	}

	if err := a.flows.Share.Generate(ctx, hours, limit); err != nil {
		return err
	}

	grant := a.flows.Share.Grant()
	printlnFn("Link:      ", grant.URL)
	printlnFn("Access key:", grant.AccessKey)
	printlnFn(a.flows.Share.ExpirySummary())
	printlnFn(a.flows.Share.AccessSummary())
	return nil
}

// shareLine renders one share for list display. The share payload may not
// reference an entry at all (EntryID zero); the title column appears only
// when the reference resolves.
func shareLine(s models.ShareRecord, lookupTitle func(id int) (string, bool)) string {
	expires := "never"
	if s.ExpiresAt > 0 {
		expires = time.Unix(s.ExpiresAt, 0).Format("2006-01-02 15:04")
	}
	if s.EntryID > 0 {
		if title, ok := lookupTitle(s.EntryID); ok {
			return fmt.Sprintf("%s  %-24s expires %s  %s", s.ShortID(), title, expires, s.UsageText())
		}
	}
	return fmt.Sprintf("%s  expires %s  %s", s.ShortID(), expires, s.UsageText())
}

// Shares lists the active shares.
func (a *App) Shares(ctx context.Context) error {
	if err := a.store.ReloadShares(ctx); err != nil {
		a.notify.Error(gateway.UserMessage(err, "Failed to load shares."))
		return err
	}
	shares := a.store.Shares()
	if len(shares) == 0 {
		printlnFn("No active shares.")
		return nil
	}
	for _, s := range shares {
		printlnFn(shareLine(s, func(id int) (string, bool) {
			e, err := a.store.Entry(id)
			return e.Title, err == nil
		}))
	}
	return nil
}

// Access opens a shared link through interactive prompts.
func (a *App) Access(ctx context.Context) error {
	link, err := GetSimpleText(a.reader, "Sharing link", os.Stdout)
	if err != nil {
		return err
	}
	key, err := GetSimpleText(a.reader, "Access key", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.flows.Access.Access(ctx, link, key); err != nil {
		return err
	}
	defer a.flows.Access.Close()

	entry, _ := a.flows.Access.Entry()
	printlnFn("Title:    ", entry.Title)
	printlnFn("Username: ", entry.Username)
	printlnFn("Password: ", entry.Secret)
	if entry.SharedBy != "" {
		printlnFn("Shared by:", entry.SharedBy)
	}

	save, err := GetConfirmation(a.reader, "Save to your passwords?", os.Stdout)
	if err != nil {
		return err
	}
	if save {
		return a.flows.Access.SaveToVault(ctx)
	}
	return nil
}

// Revoke withdraws a share after confirmation.
func (a *App) Revoke(ctx context.Context, arg string) error {
	a.flows.RevokeShare(arg)
	return a.confirmPending(ctx)
}

// Settings shows and updates the user preferences.
func (a *App) Settings(ctx context.Context) error {
	current, _ := a.settings.Current()
	printlnFn("Theme:            ", current.ThemeMode)
	printlnFn("Clipboard timeout:", current.ClipboardTimeout, "seconds")
	printlnFn("Auto logout:      ", current.AutoLogout, "minutes")

	change, err := GetConfirmation(a.reader, "Change settings?", os.Stdout)
	if err != nil {
		return err
	}
	if !change {
		return nil
	}

	next := current
	if next.ThemeMode, err = GetTextWithDefault(a.reader, "Theme (light/dark)", current.ThemeMode, os.Stdout); err != nil {
		return err
	}
	timeoutText, err := GetTextWithDefault(a.reader, "Clipboard timeout (seconds)", strconv.Itoa(current.ClipboardTimeout), os.Stdout)
	if err != nil {
		return err
	}
	if next.ClipboardTimeout, err = strconv.Atoi(timeoutText); err != nil {
		printlnFn("Clipboard timeout must be a number:", timeoutText)
		return err
	}
	logoutText, err := GetTextWithDefault(a.reader, "Auto logout (minutes)", strconv.Itoa(current.AutoLogout), os.Stdout)
	if err != nil {
		return err
	}
	if next.AutoLogout, err = strconv.Atoi(logoutText); err != nil {
		printlnFn("Auto logout must be a number:", logoutText)
		return err
	}

	if err := a.settings.Save(ctx, next); err != nil {
		a.notify.Error(gateway.UserMessage(err, "Failed to save settings."))
		return err
	}
	a.notify.Success("Settings saved successfully!")
	return nil
}

// Reload refreshes entries and shares from the server.
func (a *App) Reload(ctx context.Context) error {
	if err := a.store.Reload(ctx); err != nil {
		a.notify.Error(gateway.UserMessage(err, "Failed to reload."))
		return err
	}
	printlnFn("Reloaded.")
	return nil
}

var _ execIface = (*App)(nil)
