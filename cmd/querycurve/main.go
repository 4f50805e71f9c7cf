package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/chain"
	"github.com/npillmayer/querycurve/curvefile"
	"github.com/npillmayer/querycurve/polygon"
	"github.com/npillmayer/querycurve/query"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'querycurve'
func tracer() tracing.Trace {
	return tracing.Select("querycurve")
}

const usage = `querycurve - encode, decode and query curves

USAGE:
  querycurve [-v] <command> [flags] <args>

COMMANDS:
  encode <file.yaml>           Print the token of a curve definition
  decode <token>               Print a curve definition for a token
  query <token> <x>...         Print y for every x, "-" if x is outside of the curve
  area [flags] <token>         Print the area between the curve and a baseline

AREA FLAGS:
  -from X        Left end of the interval (default: first point)
  -to X          Right end of the interval (default: last point)
  -baseline Y    y of the baseline (default: 0)
  -steps N       Samples per segment (default: 64)

EXAMPLES:
  querycurve encode ease.yaml
  querycurve query fxSK-fxSK-0-0-0-0-KyjA-0-KyjA-fxSK-fxSK-fxSK 0.3 0.6
  querycurve area -from 0.25 -to 0.75 fxSK-fxSK-0-0-0-0-KyjA-0-KyjA-fxSK-fxSK-fxSK
`

var errUsage = errors.New("invalid arguments")

func main() {
	verbose := flag.Bool("v", false, "trace debug output")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if *verbose {
		tracer().SetTraceLevel(tracing.LevelDebug)
	}
	if err := run(os.Stdout, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		fmt.Fprintf(os.Stderr, "querycurve: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	cmd, args := args[0], args[1:]
	tracer().Debugf("command %s %v", cmd, args)
	switch cmd {
	case "encode":
		return encode(out, args)
	case "decode":
		return decode(out, args)
	case "query":
		return queryCurve(out, args)
	case "area":
		return area(out, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func encode(out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: encode needs a file", errUsage)
	}
	d, err := curvefile.Load(args[0])
	if err != nil {
		return err
	}
	b, err := d.Builder()
	if err != nil {
		return err
	}
	token, err := b.Token()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func decode(out io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode needs a token", errUsage)
	}
	curve, err := chain.DecodeCurve(args[0])
	if err != nil {
		return err
	}
	data, err := curvefile.Marshal(curvefile.FromCurve("", curve))
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func queryCurve(out io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: query needs a token and at least one x", errUsage)
	}
	f, err := query.Compile(args[0])
	if err != nil {
		return err
	}
	for _, arg := range args[1:] {
		x, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", querycurve.ErrInvalidValue, arg)
		}
		y, ok, err := f(x)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "%g\t-\n", x)
			continue
		}
		fmt.Fprintf(out, "%g\t%g\n", x, y)
	}
	return nil
}

func area(out io.Writer, args []string) error {
	fs := flag.NewFlagSet("area", flag.ContinueOnError)
	from := fs.String("from", "", "left end of the interval")
	to := fs.String("to", "", "right end of the interval")
	baseline := fs.Float64("baseline", 0, "y of the baseline")
	steps := fs.Int("steps", 64, "samples per segment")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: area needs a token", errUsage)
	}
	curve, err := chain.DecodeCurve(fs.Arg(0))
	if err != nil {
		return err
	}
	pg, err := polygon.FromCurve(curve, *baseline, *steps)
	if err != nil {
		return err
	}
	if *from == "" && *to == "" {
		fmt.Fprintf(out, "%g\n", pg.Area())
		return nil
	}
	ll, ur := pg.Bounds()
	x0, x1 := ll.X()-1, ur.X()+1
	if *from != "" {
		if x0, err = strconv.ParseFloat(*from, 64); err != nil {
			return fmt.Errorf("%w: -from %q", querycurve.ErrInvalidValue, *from)
		}
	}
	if *to != "" {
		if x1, err = strconv.ParseFloat(*to, 64); err != nil {
			return fmt.Errorf("%w: -to %q", querycurve.ErrInvalidValue, *to)
		}
	}
	window := polygon.Box(querycurve.P(x0, ll.Y()-1), querycurve.P(x1, ur.Y()+1))
	tracer().Debugf("clipping %s", polygon.AsString(window))
	fmt.Fprintf(out, "%g\n", polygon.TotalArea(polygon.Clip(pg, window)))
	return nil
}
