package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/oakmere/picklist/internal/optionfile"
	"github.com/oakmere/picklist/internal/recent"
	"github.com/oakmere/picklist/internal/styles"
)

var BUILD_VERSION = "dev"

var statePath = flag.String("state", "", "save and restore field values from this YAML file")
var recentPath = flag.String("recent", "", "path to the recent-selections database")
var noRecent = flag.Bool("no-recent", false, "disable the recent-selections store")

// recentRetention bounds the append-only selections log; anything older is
// pruned on startup.
const recentRetention = 365 * 24 * time.Hour

var helpFlag bool
var versionFlag bool

func init() {
	// Register help flags: -h and --help
	flag.BoolVar(&helpFlag, "h", false, "display help information")
	flag.BoolVar(&helpFlag, "help", false, "display help information")

	// Register version flags: -v and --version
	flag.BoolVar(&versionFlag, "v", false, "display build version")
	flag.BoolVar(&versionFlag, "version", false, "display build version")

	// Register custom zstd sink for compressed logging
	if err := zap.RegisterSink("zstd", newCompressedSink); err != nil {
		panic(fmt.Sprintf("failed to register zstd sink: %v", err))
	}
}

// main wires up the demo form: option sets from the command line (or the
// built-in demo sets), the recent-selections store, the compressed logger,
// and finally the Bubble Tea program. Submitted values are echoed to stdout
// once the program exits.
func main() {
	flag.Parse()

	if versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if helpFlag {
		printUsage()
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "picklist needs an interactive terminal")
		os.Exit(1)
	}

	logger, err := initializeLogger()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync() // Flush any buffered log entries
	}()

	logger.Info("-------- new picklist session --------", zap.Any("args", os.Args))

	// The recent-selections store powers the "last picked" hints; the form
	// works without it, so a broken database only costs a warning.
	store, err := openRecentStore()
	if err != nil {
		logger.Warn("failed to open recent-selections store", zap.Error(err))
		store = nil
	}
	if store != nil {
		if removed, err := store.Prune(recentRetention); err != nil {
			logger.Warn("failed to prune recent selections", zap.Error(err))
		} else if removed > 0 {
			logger.Debug("pruned old selections", zap.Int64("rows", removed))
		}
	}
	defer func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close recent-selections store: %v\n", err)
		}
	}()

	sets, err := loadSets(flag.Args())
	if err != nil {
		logger.Error("failed to load option sets", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	values, err := runForm(sets, store, *statePath, logger)
	if errors.Is(err, errInterrupted) {
		os.Exit(130)
	}
	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	printValues(sets, values)
}

// loadSets reads option sets from the files and directories named on the
// command line, in argument order. Without arguments the built-in demo sets
// are used. Later definitions win when two files define the same set name.
func loadSets(args []string) ([]optionfile.Set, error) {
	if len(args) == 0 {
		return defaultSets(), nil
	}

	var sets []optionfile.Set
	seen := make(map[string]int)

	add := func(s optionfile.Set) {
		if i, ok := seen[s.Name]; ok {
			sets[i] = s
			return
		}
		seen[s.Name] = len(sets)
		sets = append(sets, s)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}

		if info.IsDir() {
			loaded, err := optionfile.LoadAll(os.DirFS(arg))
			if err != nil {
				return nil, err
			}
			names := make([]string, 0, len(loaded))
			for name := range loaded {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				add(loaded[name])
			}
			continue
		}

		loaded, err := optionfile.Load(os.DirFS(filepath.Dir(arg)), filepath.Base(arg))
		if err != nil {
			return nil, err
		}
		for _, s := range loaded {
			add(s)
		}
	}

	return sets, nil
}

// defaultSets is the built-in demo form: one field per filter mode.
func defaultSets() []optionfile.Set {
	return []optionfile.Set{
		{
			Name:        "fruit",
			Filter:      "strict",
			Placeholder: "search fruit",
			Options: []optionfile.Entry{
				{Value: "apple", Label: "Apple"},
				{Value: "apricot", Label: "Apricot"},
				{Value: "avocado", Label: "Avocado"},
				{Value: "banana", Label: "Banana"},
				{Value: "blueberry", Label: "Blueberry"},
				{Value: "cherry", Label: "Cherry"},
				{Value: "durian", Label: "Durian", Disabled: true},
			},
		},
		{
			// Clearable and required: clearing the text and collapsing
			// empties the value, which then blocks submission.
			Name:        "color",
			Filter:      "clearable",
			Required:    true,
			Placeholder: "search colors",
			Options: []optionfile.Entry{
				{Value: "red", Label: "Red"},
				{Value: "green", Label: "Green", Selected: true},
				{Value: "blue", Label: "Blue"},
			},
		},
		{
			Name:        "editor",
			Filter:      "any",
			Placeholder: "pick one or type your own",
			Options: []optionfile.Entry{
				{Value: "vim"},
				{Value: "emacs"},
				{Value: "nano"},
				{Value: "helix"},
			},
		},
	}
}

func printValues(sets []optionfile.Set, values map[string]string) {
	fmt.Println(styles.HEADING("Submitted:"))
	for _, set := range sets {
		v, ok := values[set.Name]
		if !ok {
			continue
		}
		fmt.Printf("  %-12s %s\n", set.Name, styles.VALUE(v))
	}
}

func printUsage() {
	// Header
	fmt.Println(styles.HEADING("Usage:") + " picklist [flags] [options-file|options-dir ...]")
	fmt.Println("\nA searchable single-select form for the terminal.")
	fmt.Println()

	// Flags
	fmt.Println(styles.HEADING("Options:"))
	fmt.Printf("  %-24s %s\n", "-state <file>", "save and restore field values from this YAML file")
	fmt.Printf("  %-24s %s\n", "-recent <file>", "path to the recent-selections database")
	fmt.Printf("  %-24s %s\n", "-no-recent", "disable the recent-selections store")
	fmt.Printf("  %-24s %s\n", "-v, -version", "display build version")
	fmt.Printf("  %-24s %s\n", "-h, -help", "display help information")

	fmt.Println()
	fmt.Println(styles.HEADING("Keys:"))
	fmt.Printf("  %-24s %s\n", "tab / shift+tab", "move between fields, committing the highlighted option")
	fmt.Printf("  %-24s %s\n", "up / down", "open the dropdown and move the highlight")
	fmt.Printf("  %-24s %s\n", "enter", "commit, or submit the form when collapsed")
	fmt.Printf("  %-24s %s\n", "ctrl+r", "reset every field to its default")
	fmt.Printf("  %-24s %s\n", "ctrl+s", "save field values to the -state file")
}

// dataDir is where the log and the recent-selections database live,
// following the XDG data-home layout.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".local", "share", "picklist")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return dir, nil
}

func initializeLogger() (*zap.Logger, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	if BUILD_VERSION == "dev" {
		loggerConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	loggerConfig.OutputPaths = []string{
		"zstd://" + filepath.Join(dir, "picklist.zst"),
	}

	return loggerConfig.Build()
}

func openRecentStore() (*recent.Store, error) {
	if *noRecent {
		return nil, nil
	}

	path := *recentPath
	if path == "" {
		dir, err := dataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "recent.db")
	}

	return recent.NewStore(path)
}
