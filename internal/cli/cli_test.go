package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-finance-keeper/internal/backup"
	"github.com/MKhiriev/go-finance-keeper/internal/config"
	"github.com/MKhiriev/go-finance-keeper/internal/crypto"
	"github.com/MKhiriev/go-finance-keeper/internal/logger"
	"github.com/MKhiriev/go-finance-keeper/internal/service"
	"github.com/MKhiriev/go-finance-keeper/internal/session"
	"github.com/MKhiriev/go-finance-keeper/internal/store"
	"github.com/MKhiriev/go-finance-keeper/internal/vault"
	"github.com/MKhiriev/go-finance-keeper/models"
)

var errNoInput = errors.New("no more input")

type fakePrompter struct {
	pins     []string
	confirms []bool
	titles   []string
}

func (p *fakePrompter) PromptPIN(title string, _ func(string) error) (string, error) {
	p.titles = append(p.titles, title)
	if len(p.pins) == 0 {
		return "", errNoInput
	}
	pin := p.pins[0]
	p.pins = p.pins[1:]
	return pin, nil
}

func (p *fakePrompter) PromptNewPIN(title string, validate func(string) error) (string, error) {
	return p.PromptPIN(title, validate)
}

func (p *fakePrompter) Confirm(message string) (bool, error) {
	p.titles = append(p.titles, message)
	if len(p.confirms) == 0 {
		return false, errNoInput
	}
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type counterIDs struct{ n int }

func (c *counterIDs) Generate() string {
	c.n++
	return "rec-" + strconv.Itoa(c.n)
}

type harness struct {
	env       *Env
	prompt    *fakePrompter
	clipboard *fakeClipboard
	out       *bytes.Buffer
	errOut    *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	cfg := config.ClientStorage{DB: config.ClientDB{DSN: filepath.Join(t.TempDir(), "cli.db")}}
	storages, err := store.NewClientStorages(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	provider := crypto.NewProvider()
	v := vault.NewStore(storages.Envelopes, storages.PlainValues,
		crypto.NewKeyDeriver(provider), crypto.NewRecordCipher(provider), logger.Nop())
	gate := session.NewGate(v, storages.PlainValues, provider, time.Hour, logger.Nop())
	t.Cleanup(gate.Logout)

	h := &harness{
		prompt:    &fakePrompter{},
		clipboard: &fakeClipboard{},
		out:       &bytes.Buffer{},
		errOut:    &bytes.Buffer{},
	}
	h.env = &Env{
		Gate:      gate,
		Store:     v,
		Codec:     backup.NewCodec(provider, logger.Nop()),
		Services:  service.NewServices(v, &counterIDs{}, logger.Nop()),
		Prompt:    h.prompt,
		Clipboard: h.clipboard,
		BackupDir: t.TempDir(),
		Build:     models.NewAppBuildInfo("v1.2.0", "", "abc123"),
		Out:       h.out,
		Err:       h.errOut,
		Logger:    logger.Nop(),
		Now:       func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	}
	return h
}

// run executes one command line with the given PINs queued.
func (h *harness) run(t *testing.T, pins []string, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	h.prompt.pins = pins

	fs := flag.NewFlagSet("finkeeper", flag.ContinueOnError)
	cmdr := subcommands.NewCommander(fs, "finkeeper")
	cmdr.Output = &bytes.Buffer{}
	cmdr.Error = &bytes.Buffer{}
	Register(cmdr, h.env)

	require.NoError(t, fs.Parse(args))
	return cmdr.Execute(context.Background())
}

func (h *harness) setup(t *testing.T) {
	t.Helper()
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "setup"), h.errOut.String())
}

func TestCommands_RequireSetup(t *testing.T) {
	h := newHarness(t)

	status := h.run(t, nil, "accounts")

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.errOut.String(), "run `setup` first")
}

func TestSetup_Twice(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	status := h.run(t, []string{"5678"}, "setup")

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.errOut.String(), "already set up")
}

func TestSetup_StoresPINLength(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"123456"}, "setup"))

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"123456"}, "settings"))
	assert.Contains(t, h.out.String(), "pin length:    6")
	assert.Contains(t, h.out.String(), "currency:      USD")
}

func TestWrongPIN_ThreeAttempts(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	status := h.run(t, []string{"0000", "1111", "2222"}, "accounts")

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.errOut.String(), "2 attempt(s) left")
	assert.Contains(t, h.errOut.String(), "1 attempt(s) left")
	assert.Contains(t, h.errOut.String(), "Error: wrong PIN")
	assert.False(t, h.env.Store.IsOpen())
}

func TestWrongPIN_ThenRight(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	status := h.run(t, []string{"0000", "1234"}, "accounts")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, h.out.String(), "TOTAL")
	assert.False(t, h.env.Store.IsOpen(), "store must be locked after the command")
}

func TestAccountAndTransactionFlow(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	require.Equal(t, subcommands.ExitSuccess,
		h.run(t, []string{"1234"}, "account-add", "-name", "Checking", "-balance", "100"), h.errOut.String())
	assert.Contains(t, h.out.String(), `Account "Checking" created: rec-1`)

	require.Equal(t, subcommands.ExitSuccess,
		h.run(t, []string{"1234"}, "tx-add", "-account", "rec-1", "-amount", "25.50", "-category", "food", "-tags", "lunch, work"), h.errOut.String())
	assert.Contains(t, h.out.String(), "Checking balance: 74.50 USD")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "txs"))
	assert.Contains(t, h.out.String(), "2026-03-14")
	assert.Contains(t, h.out.String(), "lunch,work")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "txs", "-from", "2026-04-01"))
	assert.NotContains(t, h.out.String(), "rec-2")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "tx-delete", "-id", "rec-2"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "accounts"))
	assert.Contains(t, h.out.String(), "100.00")
}

func TestTxAdd_Usage(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, subcommands.ExitUsageError, h.run(t, nil, "tx-add", "-amount", "5"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, nil, "tx-add", "-account", "a", "-amount", "five"))
	assert.Contains(t, h.errOut.String(), `invalid amount "five"`)
}

func TestTxAdd_UnknownAccount(t *testing.T) {
	h := newHarness(t)
	h.setup(t)

	status := h.run(t, []string{"1234"}, "tx-add", "-account", "nope", "-amount", "5", "-category", "food")

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.errOut.String(), "not found")
}

func TestAccountDelete_Confirm(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-add", "-name", "Cash", "-type", "cash"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "tx-add", "-account", "rec-1", "-amount", "5", "-type", "income", "-category", "gift"))

	h.prompt.confirms = []bool{false}
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-delete", "-id", "rec-1"))
	assert.Contains(t, h.out.String(), "Cancelled.")

	h.prompt.confirms = []bool{true}
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-delete", "-id", "rec-1"))
	assert.Contains(t, h.out.String(), `Account "Cash" deleted with 1 transaction(s).`)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "txs"))
	assert.NotContains(t, h.out.String(), "rec-2")
}

func TestPlanningCommands(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-add", "-name", "Main"))

	require.Equal(t, subcommands.ExitSuccess,
		h.run(t, []string{"1234"}, "budget-add", "-category", "food", "-amount", "300"), h.errOut.String())
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "budgets"))
	assert.Contains(t, h.out.String(), "monthly")
	assert.Contains(t, h.out.String(), "300.00")

	require.Equal(t, subcommands.ExitSuccess,
		h.run(t, []string{"1234"}, "goal-add", "-name", "Trip", "-target", "1000", "-current", "250", "-deadline", "2026-12-01"), h.errOut.String())
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "goals"))
	assert.Contains(t, h.out.String(), "25%")

	require.Equal(t, subcommands.ExitSuccess,
		h.run(t, []string{"1234"}, "recurring-add", "-account", "rec-1", "-amount", "9.99", "-category", "subscriptions"), h.errOut.String())
	assert.Contains(t, h.out.String(), "next on 2026-03-14")
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "recurring"))
	assert.Contains(t, h.out.String(), "9.99")

	status := h.run(t, []string{"1234"}, "recurring-add", "-account", "rec-1", "-amount", "1", "-category", "x", "-type", "dividend")
	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-add", "-name", "Main", "-balance", "10"))

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "export", "-copy-checksum"), h.errOut.String())
	path := filepath.Join(h.env.BackupDir, "financial-backup-2026-03-14.pfencrypt")
	assert.Contains(t, h.out.String(), path)
	assert.Len(t, h.clipboard.text, 64)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-add", "-name", "Later"))

	// wrong backup PIN changes nothing
	status := h.run(t, []string{"1234", "9999"}, "import", "-file", path, "-yes")
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, h.errOut.String(), "wrong PIN or corrupted backup file")

	h.prompt.confirms = []bool{true}
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234", "1234"}, "import", "-file", path), h.errOut.String())
	assert.Contains(t, h.out.String(), "Imported 1 accounts, 0 transactions")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "accounts"))
	assert.Contains(t, h.out.String(), "Main")
	assert.NotContains(t, h.out.String(), "Later")
}

func TestExport_ClipboardFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	h.clipboard.err = errors.New("no display")

	status := h.run(t, []string{"1234"}, "export", "-copy-checksum")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, h.errOut.String(), "Could not copy")
}

func TestImport_MissingFile(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, subcommands.ExitUsageError, h.run(t, nil, "import"))
	assert.Equal(t, subcommands.ExitFailure, h.run(t, nil, "import", "-file", filepath.Join(t.TempDir(), "none.pfencrypt")))
}

func TestPrefs_NoPINNeeded(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, nil, "prefs", "-theme", "dark", "-auto-lock", "0"))
	assert.Contains(t, h.out.String(), "theme:     dark")
	assert.Contains(t, h.out.String(), "auto-lock: off")

	assert.Equal(t, subcommands.ExitFailure, h.run(t, nil, "prefs", "-theme", "neon"))
}

func TestWipe(t *testing.T) {
	h := newHarness(t)
	h.setup(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "account-add", "-name", "Main"))

	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "wipe", "-yes"))
	assert.Contains(t, h.out.String(), "All local data deleted.")

	assert.Equal(t, subcommands.ExitFailure, h.run(t, nil, "accounts"))
	assert.Contains(t, h.errOut.String(), "run `setup` first")

	h.setup(t)
	require.Equal(t, subcommands.ExitSuccess, h.run(t, []string{"1234"}, "accounts"))
	assert.NotContains(t, h.out.String(), "Main")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, nil, "version"))
	assert.Contains(t, h.out.String(), "Build version: v1.2.0")
	assert.Contains(t, h.out.String(), "Build date: N/A")
}
