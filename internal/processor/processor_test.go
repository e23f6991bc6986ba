package processor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/interlinear/internal/alignment"
	"codeberg.org/snonux/interlinear/internal/cli"
	"codeberg.org/snonux/interlinear/internal/testutil"
)

func newTestFlags(t *testing.T) *cli.Flags {
	t.Helper()
	flags := cli.NewFlags()
	flags.HistoryDB = filepath.Join(t.TempDir(), "history.db")
	return flags
}

func newTestProcessor(t *testing.T, flags *cli.Flags, mock *testutil.MockRequester) *Processor {
	t.Helper()
	p, err := newProcessor(flags, mock, nil)
	if err != nil {
		t.Fatalf("newProcessor failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewProcessor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	flags := newTestFlags(t)
	p, err := NewProcessor(context.Background(), flags, nil)
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	defer p.Close()

	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}
	if p.service == nil {
		t.Error("Translation service not initialized")
	}
	if p.store == nil {
		t.Error("History store not initialized")
	}
	if p.anki != nil {
		t.Error("Anki generator should only exist with --anki")
	}
	if got := p.Target().Code; got != "en" {
		t.Errorf("Target = %s, want en", got)
	}
}

func TestNewProcessor_Errors(t *testing.T) {
	flags := newTestFlags(t)
	flags.Provider = "carrier-pigeon"
	if _, err := NewProcessor(context.Background(), flags, nil); err == nil {
		t.Error("Expected error for unknown provider")
	}

	flags = newTestFlags(t)
	flags.Language = "Klingon"
	if _, err := newProcessor(flags, testutil.NewMockRequester(), nil); err == nil {
		t.Error("Expected error for unknown target language")
	}

	flags = newTestFlags(t)
	flags.SourceLanguage = "Klingon"
	if _, err := newProcessor(flags, testutil.NewMockRequester(), nil); err == nil {
		t.Error("Expected error for unknown source language")
	}
}

func TestNewProcessor_NoHistory(t *testing.T) {
	flags := newTestFlags(t)
	flags.NoHistory = true
	p := newTestProcessor(t, flags, testutil.NewMockRequester())

	if p.store != nil {
		t.Error("History store should not be opened with --no-history")
	}
	testutil.AssertFileNotExists(t, flags.HistoryDB)

	if err := p.ShowHistory(context.Background(), 5); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("ShowHistory error = %v, want ErrHistoryDisabled", err)
	}
}

func TestProcessSentence(t *testing.T) {
	mock := testutil.NewMockRequester()
	mock.Responses["Je pense faire"] = testutil.Reply("🇫🇷", []string{"Je", "pense", "faire"}, "🇬🇧", []string{"I", "think", "do"})

	flags := newTestFlags(t)
	flags.OutputDir = filepath.Join(t.TempDir(), "out")
	p := newTestProcessor(t, flags, mock)

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = p.ProcessSentence(context.Background(), "Je pense faire")
	})
	if err != nil {
		t.Fatalf("ProcessSentence failed: %v", err)
	}

	want := "🇫🇷 [Je] [pense] [faire]\n🇬🇧 [I] [think] [do]\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	entries, err := os.ReadDir(flags.OutputDir)
	if err != nil {
		t.Fatalf("Output directory not created: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), "_en.txt") {
		t.Errorf("Unexpected output files: %v", entries)
	}

	// A second run is served from history without a request
	p.Close()
	p2 := newTestProcessor(t, flags, mock)
	testutil.CaptureOutput(t, func() {
		err = p2.ProcessSentence(context.Background(), "Je pense faire")
	})
	if err != nil {
		t.Fatalf("second ProcessSentence failed: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("Requests = %d, want 1", mock.CallCount())
	}
}

func TestProcessSentence_Unaligned(t *testing.T) {
	mock := testutil.NewMockRequester()
	mock.Default = "Sorry, I cannot help with that."

	flags := newTestFlags(t)
	p := newTestProcessor(t, flags, mock)

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = p.ProcessSentence(context.Background(), "Bonjour")
	})
	if err != nil {
		t.Fatalf("ProcessSentence failed: %v", err)
	}
	if stdout != "Sorry, I cannot help with that.\n" {
		t.Errorf("stdout = %q, want the raw reply", stdout)
	}
}

func TestProcessSentence_RequestError(t *testing.T) {
	mock := testutil.NewMockRequester()
	mock.Errors["Bonjour"] = errors.New("boom")

	p := newTestProcessor(t, newTestFlags(t), mock)
	if err := p.ProcessSentence(context.Background(), "Bonjour"); err == nil {
		t.Error("Expected error when the provider fails")
	}
	if err := p.ProcessSentence(context.Background(), "   "); err == nil {
		t.Error("Expected error for empty sentence")
	}
}

func TestProcessBatch_InvalidFile(t *testing.T) {
	flags := newTestFlags(t)
	flags.BatchFile = "/non/existent/file.txt"
	p := newTestProcessor(t, flags, testutil.NewMockRequester())

	if err := p.ProcessBatch(context.Background()); err == nil {
		t.Error("Expected error for non-existent batch file")
	}
}

func TestProcessBatch_ValidFile(t *testing.T) {
	mock := testutil.NewMockRequester()
	mock.Responses["Je pense"] = testutil.Reply("FR", []string{"Je", "pense"}, "EN", []string{"I", "think"})
	mock.Responses["Il pleut"] = testutil.Reply("FR", []string{"Il", "pleut"}, "EN", []string{"It", "rains"})
	mock.Errors["Oups"] = errors.New("provider down")

	dir := t.TempDir()
	flags := newTestFlags(t)
	flags.Concurrency = 3
	flags.AnkiFile = filepath.Join(dir, "cards.csv")
	flags.BatchFile = testutil.CreateBatchFile(t, dir,
		"# greetings",
		"Je pense",
		"",
		"Oups",
		"msg-2 = Il pleut",
	)
	p := newTestProcessor(t, flags, mock)

	var err error
	stdout, stderr := testutil.CaptureOutput(t, func() {
		err = p.ProcessBatch(context.Background())
	})
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	first := strings.Index(stdout, "# Je pense")
	second := strings.Index(stdout, "# Il pleut")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Results not printed in file order:\n%s", stdout)
	}
	if !strings.Contains(stdout, "EN [It] [rains]") {
		t.Errorf("Missing aligned output:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Translated: 2") || !strings.Contains(stderr, "Errors: 1") {
		t.Errorf("Unexpected summary:\n%s", stderr)
	}

	path, err := p.GenerateAnkiFile()
	if err != nil {
		t.Fatalf("GenerateAnkiFile failed: %v", err)
	}
	testutil.AssertFileContains(t, path, "pense,think")
	testutil.AssertFileContains(t, path, "pleut,rains")
}

func TestProcessBatch_AllFailed(t *testing.T) {
	mock := testutil.NewMockRequester()
	flags := newTestFlags(t)
	flags.BatchFile = testutil.CreateBatchFile(t, t.TempDir(), "Un", "Deux")
	p := newTestProcessor(t, flags, mock)

	var err error
	testutil.CaptureOutput(t, func() {
		err = p.ProcessBatch(context.Background())
	})
	if err == nil {
		t.Error("Expected error when every sentence fails")
	}
}

func TestGenerateAnkiFile_NotConfigured(t *testing.T) {
	p := newTestProcessor(t, newTestFlags(t), testutil.NewMockRequester())
	if _, err := p.GenerateAnkiFile(); err == nil {
		t.Error("Expected error without --anki")
	}
}

func TestShowHistory(t *testing.T) {
	mock := testutil.NewMockRequester()
	mock.Default = testutil.Reply("FR", []string{"Oui"}, "EN", []string{"Yes"})
	p := newTestProcessor(t, newTestFlags(t), mock)

	var err error
	stdout, _ := testutil.CaptureOutput(t, func() {
		err = p.ShowHistory(context.Background(), 3)
	})
	if err != nil {
		t.Fatalf("ShowHistory failed: %v", err)
	}
	if !strings.Contains(stdout, "No translations") {
		t.Errorf("Expected empty history message, got %q", stdout)
	}

	testutil.CaptureOutput(t, func() {
		_ = p.ProcessSentence(context.Background(), "Oui")
	})
	stdout, _ = testutil.CaptureOutput(t, func() {
		err = p.ShowHistory(context.Background(), 3)
	})
	if err != nil {
		t.Fatalf("ShowHistory failed: %v", err)
	}
	if !strings.Contains(stdout, "Oui") || !strings.Contains(stdout, "EN [Yes]") {
		t.Errorf("History output missing translation:\n%s", stdout)
	}
}

func TestFormatStdin(t *testing.T) {
	f := NewFormatter(cli.NewFlags(), nil)

	var out bytes.Buffer
	if err := FormatStdin(strings.NewReader("FR [Je] [pense]\nEN [I] [think]\n"), &out, f); err != nil {
		t.Fatalf("FormatStdin failed: %v", err)
	}
	if out.String() != "FR [Je] [pense]\nEN [I] [think]\n" {
		t.Errorf("out = %q", out.String())
	}

	out.Reset()
	var err error
	_, stderr := testutil.CaptureOutput(t, func() {
		err = FormatStdin(strings.NewReader("just one line\n"), &out, f)
	})
	if err != nil {
		t.Fatalf("FormatStdin failed: %v", err)
	}
	if out.String() != "just one line\n" {
		t.Errorf("Unaligned input not echoed, got %q", out.String())
	}
	if !strings.Contains(stderr, alignment.InsufficientLines.String()) {
		t.Errorf("Expected failure note, got %q", stderr)
	}
}

func TestNewFormatter(t *testing.T) {
	flags := cli.NewFlags()
	flags.MaxLineLength = 12
	flags.Measure = "display"

	f := NewFormatter(flags, nil)
	if f.MaxLineLength() != 12 {
		t.Errorf("MaxLineLength = %d, want 12", f.MaxLineLength())
	}
}

func TestListLanguages(t *testing.T) {
	var out bytes.Buffer
	if err := ListLanguages(&out, "fr"); err != nil {
		t.Fatalf("ListLanguages failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 languages, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "* ") || !strings.Contains(lines[0], "France (fr)") {
		t.Errorf("Selected language not marked: %q", lines[0])
	}
	if strings.HasPrefix(lines[2], "*") {
		t.Errorf("Only the selected language should be marked: %q", lines[2])
	}
}
