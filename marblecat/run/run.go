// Package run implements the main logic for the marblecat tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/alexflint/go-arg"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/toejough/marbles/internal/core"
	"github.com/toejough/marbles/internal/parse"
	"github.com/toejough/marbles/rx"
)

// Interfaces - Public

// FileSystem interface for mocking.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// Structs - Private

// cliArgs defines the command-line arguments for marblecat.
type cliArgs struct {
	Diagrams     []string          `arg:"positional"         help:"marble diagrams to render"`
	Config       string            `arg:"--config"           help:"YAML file of named diagrams"`
	Unit         int64             `arg:"--unit"             default:"10" help:"frames per diagram character"`
	Values       map[string]string `arg:"--values"           help:"values for emission characters, as c=value"`
	Error        string            `arg:"--error"            help:"message carried by '#'"`
	Subscription bool              `arg:"--subscription"     help:"treat diagrams as subscription diagrams (^ and !)"`
	Simulate     bool              `arg:"--simulate"         help:"play diagrams as cold sources on a virtual scheduler"`
	Verbose      bool              `arg:"-v,--verbose"       help:"trace scheduler activity to stderr"`
	NoColor      bool              `arg:"--no-color"         help:"disable colored output"`
	ForceColor   bool              `arg:"--force-color"      help:"color output even when stdout is not a terminal"`
}

// scenario is one named diagram from a config file or the command line.
type scenario struct {
	Name         string            `yaml:"name"`
	Diagram      string            `yaml:"diagram"`
	Values       map[string]string `yaml:"values"`
	Error        string            `yaml:"error"`
	Subscription bool              `yaml:"subscription"`
}

// scenarioFile is the YAML config layout.
type scenarioFile struct {
	FrameUnit int64      `yaml:"frameUnit"`
	MaxFrames int64      `yaml:"maxFrames"`
	Diagrams  []scenario `yaml:"diagrams"`
}

// Functions - Public

// Run executes the marblecat tool logic. It takes command-line arguments, a FileSystem for reading config files,
// and writers for output and diagnostics. Each diagram is printed as a frame-by-frame timeline.
func Run(args []string, fileSys FileSystem, stdout, stderr io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	file := scenarioFile{FrameUnit: parsed.Unit}

	if parsed.Config != "" {
		file, err = loadConfig(parsed.Config, fileSys, parsed.Unit)
		if err != nil {
			return err
		}
	}

	for index, diagram := range parsed.Diagrams {
		file.Diagrams = append(file.Diagrams, scenario{
			Name:         fmt.Sprintf("arg%d", index+1),
			Diagram:      diagram,
			Values:       parsed.Values,
			Error:        parsed.Error,
			Subscription: parsed.Subscription,
		})
	}

	if len(file.Diagrams) == 0 {
		return errNoDiagrams
	}

	level := zerolog.InfoLevel
	if parsed.Verbose {
		level = zerolog.TraceLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: parsed.NoColor}).Level(level).With().Timestamp().Logger()
	out := newPrinter(stdout, parsed.NoColor, parsed.ForceColor)

	for _, scn := range file.Diagrams {
		logger.Debug().Str("name", scn.Name).Str("diagram", scn.Diagram).Msg("rendering")

		err := render(out, scn, file, parsed.Simulate, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", scn.Name, err)
		}
	}

	return out.flush()
}

// Functions - Private

// errNoDiagrams is returned when neither arguments nor config name a diagram.
var errNoDiagrams = errors.New("no diagrams given")

// errBadValueKey is returned for value keys that are not a single character.
var errBadValueKey = errors.New("value keys must be single characters")

func loadConfig(path string, fileSys FileSystem, unit int64) (scenarioFile, error) {
	data, err := fileSys.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("failed to read config: %w", err)
	}

	var file scenarioFile

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if file.FrameUnit <= 0 {
		file.FrameUnit = unit
	}

	return file, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "marblecat"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

func render(out *printer, scn scenario, file scenarioFile, simulate bool, logger zerolog.Logger) error {
	out.header(scn.Name, scn.Diagram)

	if scn.Subscription {
		log, err := parse.ParseSubscription(scn.Diagram, file.FrameUnit)
		if err != nil {
			return err
		}

		out.subscription(log)

		return nil
	}

	values, err := runeValues(scn.Values)
	if err != nil {
		return err
	}

	var errValue error
	if scn.Error != "" {
		errValue = errors.New(scn.Error) //nolint:err113 // user-supplied message
	}

	if !simulate {
		desc, err := parse.Parse(scn.Diagram, file.FrameUnit, values, errValue)
		if err != nil {
			return err
		}

		out.events(desc.Events)

		return nil
	}

	events, err := play(scn.Diagram, file, values, errValue, logger)
	if err != nil {
		return err
	}

	out.events(events)

	return nil
}

// play subscribes to the diagram as a cold source and flushes the scheduler,
// returning what was delivered.
func play(
	diagram string,
	file scenarioFile,
	values map[rune]string,
	errValue error,
	logger zerolog.Logger,
) ([]parse.TimedNotification[string], error) {
	rep := &reporter{}

	opts := []core.Option{core.WithFrameUnit(file.FrameUnit), core.WithLogger(logger)}
	if file.MaxFrames > 0 {
		opts = append(opts, core.WithMaxFrames(file.MaxFrames))
	}

	sched := core.NewScheduler(rep, opts...)

	src := core.Cold(sched, diagram, values, errValue)
	if rep.err != nil {
		return nil, rep.err
	}

	var delivered []parse.TimedNotification[string]

	rx.Subscribe[string](src, func(n rx.Notification[string]) {
		delivered = append(delivered, parse.TimedNotification[string]{Frame: sched.Now(), Notification: n})
	})

	sched.Flush()

	return delivered, rep.err
}

func runeValues(values map[string]string) (map[rune]string, error) {
	out := make(map[rune]string, len(values))

	for key, value := range values {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("%w: %q", errBadValueKey, key)
		}

		r, _ := utf8.DecodeRuneInString(key)
		out[r] = value
	}

	return out, nil
}

// printer writes aligned, optionally colored timelines. Colored text only
// goes after a line's last tab, where tabwriter does not measure it.
type printer struct {
	tw       *tabwriter.Writer
	name     *color.Color
	next     *color.Color
	errColor *color.Color
	complete *color.Color
}

func newPrinter(w io.Writer, noColor, forceColor bool) *printer {
	p := &printer{
		tw:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), //nolint:mnd // two spaces of padding
		name:     color.New(color.Bold),
		next:     color.New(color.FgGreen),
		errColor: color.New(color.FgRed),
		complete: color.New(color.FgBlue),
	}

	for _, c := range []*color.Color{p.name, p.next, p.errColor, p.complete} {
		switch {
		case noColor:
			c.DisableColor()
		case forceColor:
			c.EnableColor()
		}
	}

	return p
}

func (p *printer) events(events []parse.TimedNotification[string]) {
	for _, event := range events {
		note := event.Notification

		switch note.Kind {
		case rx.KindNext:
			fmt.Fprintf(p.tw, "\t%d\t%s %s\n", event.Frame, p.next.Sprint(note.Kind), note.Value)
		case rx.KindError:
			fmt.Fprintf(p.tw, "\t%d\t%s %v\n", event.Frame, p.errColor.Sprint(note.Kind), note.Err)
		case rx.KindComplete:
			fmt.Fprintf(p.tw, "\t%d\t%s\n", event.Frame, p.complete.Sprint(note.Kind))
		}
	}
}

func (p *printer) flush() error {
	err := p.tw.Flush()
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// header has no cells, so it also ends the previous column block.
func (p *printer) header(name, diagram string) {
	fmt.Fprintf(p.tw, "%s  %s\n", p.name.Sprint(name), diagram)
}

func (p *printer) subscription(log parse.SubscriptionLog) {
	fmt.Fprintf(p.tw, "\tsubscribed\t%s\n", parse.FrameString(log.Subscribed))
	fmt.Fprintf(p.tw, "\tunsubscribed\t%s\n", parse.FrameString(log.Unsubscribed))
}

// reporter collects the first failure a scheduler reports.
type reporter struct {
	err error
}

func (r *reporter) Fatalf(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf(format, args...) //nolint:err113 // forwarded failure text
	}
}

func (r *reporter) Helper() {}
