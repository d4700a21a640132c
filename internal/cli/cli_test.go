package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/dirscan/internal/output"
	"github.com/temirov/dirscan/internal/traverse"
	"github.com/temirov/dirscan/internal/utils"
)

const testVersion = "v0.0.0-test"

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

// newTestApplication isolates configuration lookups inside a temporary home and working directory.
func newTestApplication(t *testing.T) (*application, *bytes.Buffer, *recordingCopier) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	chdirForTest(t, t.TempDir())

	var buffer bytes.Buffer
	copier := &recordingCopier{}
	app := &application{
		fileSystem:   afero.NewOsFs(),
		output:       &buffer,
		copier:       copier,
		logger:       zap.NewNop(),
		versionValue: func() string { return testVersion },
	}
	return app, &buffer, copier
}

// createFixture builds root/a.txt, root/dir1/b.txt and root/dir1/c.log.
func createFixture(t *testing.T) string {
	t.Helper()
	rootDirectory := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.MkdirAll(filepath.Join(rootDirectory, "dir1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rootDirectory, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDirectory, "dir1", "b.txt"), []byte("beta"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rootDirectory, "dir1", "c.log"), []byte("gamma"), 0o644))
	return rootDirectory
}

func outputLines(buffer *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buffer.String(), "\n"), "\n")
}

func TestListDefaultsToFilesOnly(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"list", rootDirectory}))
	require.Equal(t, []string{
		"[File] " + filepath.Join(rootDirectory, "a.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "b.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "c.log"),
	}, outputLines(buffer))
}

func TestListWithFoldersPrintsDirectoryAfterContents(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"l", "--folders", rootDirectory}))
	require.Equal(t, []string{
		"[File] " + filepath.Join(rootDirectory, "a.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "b.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "c.log"),
		"[Dir]  " + filepath.Join(rootDirectory, "dir1"),
	}, outputLines(buffer))
}

func TestListNonRecursive(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"list", "--recursive", "false", rootDirectory}))
	require.Equal(t, []string{"[File] " + filepath.Join(rootDirectory, "a.txt")}, outputLines(buffer))
}

func TestTreeJSONNestsDirectories(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"tree", "--format", "json", "--extensions", rootDirectory}))

	var entries []traverse.Entry
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "a.txt", entries[0].Name)
	require.Equal(t, ".txt", entries[0].Extension)
	require.Equal(t, "dir1", entries[1].Name)
	require.True(t, entries[1].IsDirectory)
	require.Len(t, entries[1].Content, 2)
	require.Equal(t, "c", entries[1].Content[1].Title)
}

func TestTreeRawRendersConnectors(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"t", rootDirectory}))
	require.Equal(t, []string{
		rootDirectory,
		"├── a.txt",
		"└── dir1",
		"    ├── b.txt",
		"    └── c.log",
	}, outputLines(buffer))
}

func TestExclusionFlagAndFile(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	patternFile := filepath.Join(t.TempDir(), "patterns")
	require.NoError(t, os.WriteFile(patternFile, []byte("# logs\n\\.LOG$\n"), 0o644))

	require.NoError(t, app.run([]string{"list", "-e", `a\.txt$`, "--exclude-from", patternFile, rootDirectory}))
	require.Equal(t, []string{"[File] " + filepath.Join(rootDirectory, "dir1", "b.txt")}, outputLines(buffer))
}

func TestInvalidExclusionPatternFails(t *testing.T) {
	app, _, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	err := app.run([]string{"list", "-e", "(", rootDirectory})
	require.ErrorIs(t, err, traverse.ErrInvalidPattern)
}

func TestGitIgnoreRulesApplied(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(rootDirectory, utils.GitIgnoreFileName), []byte("*.log\n"), 0o644))

	require.NoError(t, app.run([]string{"list", "--gitignore", rootDirectory}))
	require.Equal(t, []string{
		"[File] " + filepath.Join(rootDirectory, ".gitignore"),
		"[File] " + filepath.Join(rootDirectory, "a.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "b.txt"),
	}, outputLines(buffer))
}

func TestLocalConfigurationAppliesAndFlagsOverride(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	configuration := "list:\n  format: json\n  stats: true\n  exclude:\n    - \\.log$\n"
	require.NoError(t, os.WriteFile(utils.LocalConfigFileName, []byte(configuration), 0o644))

	require.NoError(t, app.run([]string{"list", rootDirectory}))
	var entries []traverse.Entry
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entries))
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.NotNil(t, entry.Stats)
	}

	buffer.Reset()
	require.NoError(t, app.run([]string{"list", "--format", "raw", "--stats=false", rootDirectory}))
	require.Equal(t, []string{
		"[File] " + filepath.Join(rootDirectory, "a.txt"),
		"[File] " + filepath.Join(rootDirectory, "dir1", "b.txt"),
	}, outputLines(buffer))
}

func TestExplicitConfigurationPath(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	configurationPath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configurationPath, []byte("tree:\n  format: yaml\n"), 0o644))

	require.NoError(t, app.run([]string{"tree", "--config", configurationPath, rootDirectory}))
	require.True(t, strings.HasPrefix(buffer.String(), "- name: a.txt"))
}

func TestSummaryLine(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"list", "--summary", "--stats", rootDirectory}))
	lines := outputLines(buffer)
	require.Equal(t, "Summary: 3 files, 0 directories, 14b", lines[len(lines)-1])
}

func TestClipboardReceivesRenderedOutput(t *testing.T) {
	app, buffer, copier := newTestApplication(t)
	rootDirectory := createFixture(t)

	require.NoError(t, app.run([]string{"list", "--clipboard", rootDirectory}))
	require.Len(t, copier.copied, 1)
	require.Equal(t, buffer.String(), copier.copied[0])
}

func TestClipboardFailureIsReported(t *testing.T) {
	app, _, copier := newTestApplication(t)
	copier.err = errors.New("no clipboard")
	rootDirectory := createFixture(t)

	err := app.run([]string{"list", "--clipboard", rootDirectory})
	require.ErrorIs(t, err, copier.err)
}

func TestInvalidFormat(t *testing.T) {
	app, _, _ := newTestApplication(t)
	err := app.run([]string{"list", "--format", "csv", createFixture(t)})
	require.EqualError(t, err, "invalid format value 'csv'")
}

func TestMissingPath(t *testing.T) {
	app, _, _ := newTestApplication(t)
	err := app.run([]string{"list", filepath.Join(t.TempDir(), "missing")})
	require.ErrorContains(t, err, "does not exist")
}

func TestFileRootIsDescribed(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	filePath := filepath.Join(rootDirectory, "a.txt")

	require.NoError(t, app.run([]string{"list", filePath}))
	require.Equal(t, []string{"[File] " + filePath}, outputLines(buffer))
}

func TestMultipleRootsRenderWrappedJSON(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	nestedDirectory := filepath.Join(rootDirectory, "dir1")

	require.NoError(t, app.run([]string{"list", "--format", "json", rootDirectory, nestedDirectory, rootDirectory}))
	var results []output.Result
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &results))
	require.Len(t, results, 2)
	require.Equal(t, rootDirectory, results[0].Root)
	require.Equal(t, nestedDirectory, results[1].Root)
	require.Len(t, results[1].Entries, 2)
}

// unlistableFs refuses to open the listed directories while still reporting their metadata.
type unlistableFs struct {
	afero.Fs
	blocked map[string]struct{}
}

func (fileSystem unlistableFs) Open(name string) (afero.File, error) {
	if _, isBlocked := fileSystem.blocked[name]; isBlocked {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fileSystem.Fs.Open(name)
}

func TestUnreadableRootIsSkippedWhenAnotherSucceeds(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	readableRoot := createFixture(t)
	unreadableRoot := t.TempDir()
	app.fileSystem = unlistableFs{Fs: afero.NewOsFs(), blocked: map[string]struct{}{unreadableRoot: {}}}

	require.NoError(t, app.run([]string{"list", unreadableRoot, readableRoot}))
	require.Contains(t, buffer.String(), filepath.Join(readableRoot, "a.txt"))
	require.NotContains(t, buffer.String(), "--- Listing: "+unreadableRoot+" ---")
}

func TestUnreadableSingleRootFails(t *testing.T) {
	app, _, _ := newTestApplication(t)
	unreadableRoot := t.TempDir()
	app.fileSystem = unlistableFs{Fs: afero.NewOsFs(), blocked: map[string]struct{}{unreadableRoot: {}}}

	err := app.run([]string{"list", unreadableRoot})
	var traversalError *traverse.TraversalError
	require.ErrorAs(t, err, &traversalError)
	require.Equal(t, unreadableRoot, traversalError.Path)
}

func TestRootsAreResolvedOnTheInjectedFileSystem(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	virtualRoot := filepath.Join(string(filepath.Separator), "virtual", "root")
	memoryFileSystem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memoryFileSystem, filepath.Join(virtualRoot, "only.txt"), []byte("x"), 0o644))
	app.fileSystem = memoryFileSystem

	require.NoError(t, app.run([]string{"list", virtualRoot}))
	require.Equal(t, []string{"[File] " + filepath.Join(virtualRoot, "only.txt")}, outputLines(buffer))

	buffer.Reset()
	err := app.run([]string{"list", createFixture(t)})
	require.ErrorContains(t, err, "does not exist")
}

func TestMissingExclusionFileFails(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)

	err := app.run([]string{"list", "--exclude-from", filepath.Join(t.TempDir(), "absent"), rootDirectory})
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, buffer.String())
}

func TestShortLiteralAfterToggleIsTraversedAsPath(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	rootDirectory := createFixture(t)
	chdirForTest(t, rootDirectory)
	require.NoError(t, os.Mkdir("y", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("y", "inside.txt"), []byte("i"), 0o644))

	require.NoError(t, app.run([]string{"list", "--stats", "y"}))
	lines := outputLines(buffer)
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], "[File] "+filepath.Join(rootDirectory, "y", "inside.txt")+" ("))
}

func TestVersionFlag(t *testing.T) {
	app, buffer, _ := newTestApplication(t)
	require.NoError(t, app.run([]string{"--version"}))
	require.Equal(t, "dirscan version: "+testVersion+"\n", buffer.String())
}

func TestInitCommand(t *testing.T) {
	app, buffer, _ := newTestApplication(t)

	require.NoError(t, app.run([]string{"init"}))
	require.Contains(t, buffer.String(), utils.LocalConfigFileName)
	_, statError := os.Stat(utils.LocalConfigFileName)
	require.NoError(t, statError)

	require.Error(t, app.run([]string{"init"}))
	require.NoError(t, app.run([]string{"init", "--force"}))
}

func TestDispatchStreamPropagatesConsumerError(t *testing.T) {
	consumerError := errors.New("render failed")
	producer := func(ctx context.Context, results chan<- output.Result) error {
		for index := 0; index < 3; index++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case results <- output.Result{}:
			}
		}
		return nil
	}
	consumer := func(output.Result) error { return consumerError }

	require.ErrorIs(t, dispatchStream(context.Background(), producer, consumer), consumerError)
}

func TestResolveAndValidatePathsDeduplicates(t *testing.T) {
	rootDirectory := createFixture(t)
	validated, err := resolveAndValidatePaths(afero.NewOsFs(), []string{rootDirectory, rootDirectory + string(filepath.Separator), filepath.Join(rootDirectory, "a.txt")})
	require.NoError(t, err)
	require.Len(t, validated, 2)
	require.True(t, validated[0].IsDir)
	require.False(t, validated[1].IsDir)
}

// chdirForTest changes the working directory for the duration of the test (Go 1.21 lacks testing.T.Chdir).
func chdirForTest(t *testing.T, directory string) {
	t.Helper()
	previousDirectory, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(directory))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(previousDirectory))
	})
}
