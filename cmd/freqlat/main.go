package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/TomTonic/freqlat"
	"github.com/klauspost/cpuid/v2"
)

const userspaceGovernor = "userspace"

type options struct {
	core       int
	from       uint64
	to         uint64
	all        bool
	runs       int
	window     time.Duration
	tolerance  float64
	maxIter    uint64
	timeout    time.Duration
	mount      string
	seed       uint64
	list       bool
	info       bool
	jsonOutput bool
}

func main() {
	var opts options
	flag.IntVar(&opts.core, "core", 0, "core to measure")
	flag.Uint64Var(&opts.from, "from", 0, "start frequency in kHz (default: highest advertised)")
	flag.Uint64Var(&opts.to, "to", 0, "target frequency in kHz (default: lowest advertised)")
	flag.BoolVar(&opts.all, "all", false, "measure every pair of advertised frequencies")
	flag.IntVar(&opts.runs, "runs", 10, "measurements per transition")
	flag.DurationVar(&opts.window, "window", freqlat.DefaultSampleWindow, "cycle sampling window, must divide 1ms")
	flag.Float64Var(&opts.tolerance, "tolerance", freqlat.DefaultTolerance, "accepted relative deviation from the target")
	flag.Uint64Var(&opts.maxIter, "max-iterations", 0, "give up a wait after this many samples (0: never)")
	flag.DurationVar(&opts.timeout, "timeout", 0, "abort the whole measurement after this long (0: never)")
	flag.StringVar(&opts.mount, "sysfs", freqlat.DefaultSysfsMount, "sysfs mount point")
	flag.Uint64Var(&opts.seed, "seed", 0, "seed for the order of -all transitions (0: random)")
	flag.BoolVar(&opts.list, "list", false, "list advertised frequencies and exit")
	flag.BoolVar(&opts.info, "info", false, "show cpufreq policies and exit")
	flag.BoolVar(&opts.jsonOutput, "json", false, "print reports as JSON")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("freqlat: ")

	if err := run(opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, out io.Writer) error {
	sys := freqlat.Sysfs{Mount: opts.mount}
	cores := freqlat.CoreCount()

	cat := freqlat.BuildCatalog(cores, sys)
	defer cat.Release()

	if opts.info {
		return printInfo(out, sys, cores)
	}
	if opts.list {
		for i := range cat.Cores() {
			cat.Display(out, i)
		}
		return nil
	}

	if opts.core < 0 || opts.core >= cores {
		return fmt.Errorf("core %d out of range [0,%d)", opts.core, cores)
	}
	plan, err := buildPlan(opts, cat)
	if err != nil {
		return err
	}

	if p := freqlat.SampleTimePrecision(); p*100 > opts.window.Nanoseconds() {
		log.Printf("warning: clock precision %v is coarse for a %v window", time.Duration(p), opts.window)
	}

	unpin, err := freqlat.PinToCore(opts.core)
	if err != nil {
		return err
	}
	defer unpin()

	restore, err := useGovernor(sys, opts.core, userspaceGovernor)
	if err != nil {
		return err
	}
	defer restore()

	counter := freqlat.NewHardwareCounter()
	defer counter.Close()
	if err := counter.Available(); err != nil {
		return err
	}

	det, err := freqlat.NewDetector(counter, freqlat.Config{
		SampleWindow:  opts.window,
		Tolerance:     opts.tolerance,
		MaxIterations: opts.maxIter,
		Diagnostics:   os.Stderr,
		Current:       sys,
		Cores:         cores,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	est := freqlat.NewEstimator(det, sys)
	reports, err := est.MeasurePlan(ctx, opts.core, plan, opts.runs)
	if perr := printReports(out, reports, opts.jsonOutput); perr != nil {
		return perr
	}
	if err != nil {
		return err
	}

	last := plan[len(plan)-1].To
	if cur := det.CurrentFrequency(opts.core); cur != 0 && !cur.Within(last, opts.tolerance) {
		log.Printf("warning: cpu%d reports %v after waiting for %v", opts.core, cur, last)
	}
	return nil
}

func buildPlan(opts options, cat *freqlat.Catalog) ([]freqlat.Transition, error) {
	if opts.all {
		plan := freqlat.TransitionPlan(cat, opts.core, opts.seed)
		if len(plan) == 0 {
			return nil, fmt.Errorf("cpu%d advertises fewer than two frequencies", opts.core)
		}
		return plan, nil
	}

	from, to := freqlat.Frequency(opts.from), freqlat.Frequency(opts.to)
	if from == 0 {
		from = cat.MaxAvailable(opts.core)
	}
	if to == 0 {
		to = cat.MinAvailable(opts.core)
	}
	for _, f := range []freqlat.Frequency{from, to} {
		if !cat.IsAvailable(opts.core, f) {
			return nil, fmt.Errorf("%d kHz is not an advertised frequency of cpu%d", f, opts.core)
		}
	}
	if from == to {
		return nil, errors.New("start and target frequency are equal")
	}
	return []freqlat.Transition{{From: from, To: to}}, nil
}

type governorSwitcher interface {
	Governor(coreID int) (string, error)
	SetGovernor(coreID int, governor string) error
}

// useGovernor switches coreID to governor and returns a function restoring the previous one.
func useGovernor(sys governorSwitcher, coreID int, governor string) (func(), error) {
	old, err := sys.Governor(coreID)
	if err != nil {
		return nil, fmt.Errorf("read governor of cpu%d: %w", coreID, err)
	}
	if old == governor {
		return func() {}, nil
	}
	if err := sys.SetGovernor(coreID, governor); err != nil {
		return nil, fmt.Errorf("set %s governor on cpu%d: %w", governor, coreID, err)
	}
	return func() {
		if err := sys.SetGovernor(coreID, old); err != nil {
			log.Printf("restore %s governor on cpu%d: %v", old, coreID, err)
		}
	}, nil
}

func printInfo(out io.Writer, sys freqlat.Sysfs, cores int) error {
	fmt.Fprintf(out, "CPU: %s (%s), %d online cores\n", cpuid.CPU.BrandName, cpuid.CPU.VendorString, cores)
	fmt.Fprintf(out, "Clock precision: %v\n", time.Duration(freqlat.SampleTimePrecision()))

	infos, err := sys.DescribeCores()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CORE\tDRIVER\tGOVERNOR\tCUR\tMIN\tMAX\tADVERTISED LATENCY")
	for _, ci := range infos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%v\t%v\t%v\n",
			ci.ID, ci.Driver, ci.Governor, ci.Current, ci.Min, ci.Max, ci.TransitionLatency)
	}
	return tw.Flush()
}

func printReports(out io.Writer, reports []freqlat.LatencyReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CORE\tFROM\tTO\tRUNS\tMIN\tMEDIAN\tMEAN\tP95\tMAX\tSTDDEV")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%v\t%v\t%v\t%v\t%v\t%v\n",
			r.CoreID, r.From, r.To, len(r.Samples), r.Min, r.Median, r.Mean, r.P95, r.Max, r.StdDev)
	}
	return tw.Flush()
}
