// vecstat pushes integers into a vector and reports every reallocation its growth policy made,
// along with the amortised number of element moves per push.
package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"go.llib.dev/frameless/pkg/cli"
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"
	"gopkg.in/yaml.v3"

	"go.llib.dev/tinystl/pkg/vector"
)

func main() {
	cli.Main(context.Background(), Command{})
}

const ErrInvalidCount errorkit.Error = "ErrInvalidCount"

// Command resolves every input from its flag first, then from its environment variable, then from the default.
type Command struct {
	Count   int     `flag:"count,n" env:"VECSTAT_COUNT" default:"1024" desc:"number of elements to push"`
	Factor  float64 `flag:"factor,f" env:"VECSTAT_GROWTH_FACTOR" default:"2" desc:"growth factor, factors not above 1 use doubling"`
	Reserve bool    `flag:"reserve" desc:"reserve the final capacity before pushing"`
	Quiet   bool    `flag:"quiet,q" desc:"print only the summary line"`
	Format  string  `flag:"format,o" enum:"table,yaml," default:"table" desc:"output format"`
}

func (cmd Command) Summary() string { return "trace the reallocations of a growing vector" }

func (cmd Command) ServeCLI(w cli.ResponseWriter, r *cli.Request) {
	ctx := r.Context()

	tr, err := Trace(cmd.Count, vector.Factor(cmd.Factor), cmd.Reserve)
	if err != nil {
		logger.Error(ctx, "vecstat trace failed", logging.ErrField(err))
		handleError(w, err)
		return
	}

	if err := cmd.print(w, tr); err != nil {
		logger.Error(ctx, "failed to print vecstat report", logging.ErrField(err))
		handleError(w, err)
		return
	}

	logger.Info(ctx, "vector growth traced",
		logging.Field("pushes", tr.Pushes),
		logging.Field("factor", cmd.Factor),
		logging.Field("reallocations", len(tr.Reallocations)),
		logging.Field("moved", tr.Moved()),
		logging.Field("capacity", tr.Capacity))
}

func handleError(w cli.ResponseWriter, err error) {
	w.ExitCode(cli.ExitCodeError)
	var out io.Writer = w
	if ew, ok := w.(cli.ErrorWriter); ok {
		out = ew.Stderr()
	}
	fmt.Fprintln(out, err.Error())
}

func (cmd Command) print(w io.Writer, tr Report) error {
	if cmd.Format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return errorkit.Merge(enc.Encode(tr.document(cmd.Quiet)), enc.Close())
	}
	if !cmd.Quiet {
		if err := cli.FPrintTable(w, tr.Table()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "pushes=%d reallocations=%d moved=%d amortised=%.3f\n",
		tr.Pushes, len(tr.Reallocations), tr.Moved(), tr.Amortised())
	return err
}

type Reallocation struct {
	Len   int `yaml:"len"`
	From  int `yaml:"from"`
	To    int `yaml:"to"`
	Moved int `yaml:"moved"`
}

type Report struct {
	Pushes        int
	Capacity      int
	Reallocations []Reallocation
}

// Document is the machine readable form of a Report.
type Document struct {
	Pushes        int            `yaml:"pushes"`
	Capacity      int            `yaml:"capacity"`
	Moved         int            `yaml:"moved"`
	Amortised     float64        `yaml:"amortised"`
	Reallocations []Reallocation `yaml:"reallocations,omitempty"`
}

func (r Report) document(summaryOnly bool) Document {
	doc := Document{
		Pushes:    r.Pushes,
		Capacity:  r.Capacity,
		Moved:     r.Moved(),
		Amortised: r.Amortised(),
	}
	if !summaryOnly {
		doc.Reallocations = r.Reallocations
	}
	return doc
}

// Trace pushes n elements into a new Vector that uses the given growth policy
// and records every capacity change on the way.
func Trace(n int, growth vector.GrowthPolicy, reserve bool) (Report, error) {
	if n < 0 {
		return Report{}, ErrInvalidCount.F("count must not be negative: %d", n)
	}
	v := vector.New[int](vector.WithGrowth(growth))
	var rep Report
	observe := func(before int) {
		if v.Cap() != before {
			rep.Reallocations = append(rep.Reallocations, Reallocation{
				Len:   v.Len(),
				From:  before,
				To:    v.Cap(),
				Moved: min(before, v.Len()),
			})
		}
	}
	if reserve {
		before := v.Cap()
		if err := v.Reserve(n); err != nil {
			return Report{}, err
		}
		observe(before)
	}
	for i := range n {
		before := v.Cap()
		v.PushBack(i)
		observe(before)
	}
	rep.Pushes = v.Len()
	rep.Capacity = v.Cap()
	return rep, nil
}

// Moved is the total number of live elements copied between allocations.
// The element being pushed is not counted.
func (r Report) Moved() int {
	var total int
	for _, ra := range r.Reallocations {
		total += ra.Moved
	}
	return total
}

func (r Report) Amortised() float64 {
	if r.Pushes == 0 {
		return 0
	}
	return float64(r.Moved()) / float64(r.Pushes)
}

func (r Report) Table() [][]string {
	table := [][]string{{"LEN", "FROM", "TO", "MOVED"}}
	for _, ra := range r.Reallocations {
		table = append(table, []string{
			strconv.Itoa(ra.Len),
			strconv.Itoa(ra.From),
			strconv.Itoa(ra.To),
			strconv.Itoa(ra.Moved),
		})
	}
	return table
}
