// Command stratum is a thin CLI over the planner: it parses a schema
// string, builds a filter from flags, chooses a strategy, compiles a
// QueryPlan, and prints the plan's ranges and iterator stack. It never
// touches a real store or a real CQL parser — both are external
// collaborators (§1) — so it stands in for them with flag-built filters
// and a demo key encoder.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/paulmach/orb"

	"github.com/stratumdb/stratum/stratum/annotations"
	"github.com/stratumdb/stratum/stratum/compile"
	"github.com/stratumdb/stratum/stratum/decide"
	"github.com/stratumdb/stratum/stratum/filter"
	"github.com/stratumdb/stratum/stratum/geom"
	"github.com/stratumdb/stratum/stratum/keyplan"
	"github.com/stratumdb/stratum/stratum/plan"
	"github.com/stratumdb/stratum/stratum/schema"
)

func main() {
	var schemaStr string
	var attrEq string
	var attrLike string
	var idIn string
	var bbox string
	var version int
	var verbose bool
	var help bool

	flag.StringVar(&schemaStr, "schema", "", "schema string, e.g. attr1:String,attr2:String:index=true:cardinality=high,geom:Point:default=true")
	flag.StringVar(&attrEq, "eq", "", "attr=value equality predicate")
	flag.StringVar(&attrLike, "like", "", "attr=pattern LIKE predicate (literal prefix + trailing %)")
	flag.StringVar(&idIn, "ids", "", "comma-separated id list for an IdIn predicate")
	flag.StringVar(&bbox, "bbox", "", "minX,minY,maxX,maxY spatial predicate against the default geometry")
	flag.IntVar(&version, "version", 1, "schema version; <= 0 forces the legacy StIdx bypass")
	flag.BoolVar(&verbose, "verbose", false, "print the decision and compilation steps")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -schema <schema string> [predicate flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Chooses a strategy and compiles a query plan for a filter built from flags.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if help || schemaStr == "" {
		flag.Usage()
		if help {
			os.Exit(0)
		}
		os.Exit(1)
	}

	desc, err := schema.Parse(schemaStr)
	if err != nil {
		fatal(err)
	}

	f, err := buildFilter(attrEq, attrLike, idIn, bbox)
	if err != nil {
		fatal(err)
	}

	var collector *annotations.Collector
	if verbose {
		collector = annotations.NewCollector(printEvent)
	}

	hints := decide.Hints{}
	decideStart := time.Now()
	tag := decide.Choose(desc, f, hints, version)
	collector.AddTiming(annotations.DecideStrategy, decideStart, map[string]interface{}{
		"strategy": tag.String(),
	})

	req := compile.Request{
		Schema: desc,
		Filter: f,
		Hints:  hints,
		Tables: compile.Tables{
			AttributeIndex: "attribute_index",
			Record:         "records",
			SpatioTemporal: "spatio_temporal_index",
		},
		Options: compile.Options{
			FeatureEncoding: "kryo",
			EncodedSchema:   schemaStr,
			SFTName:         desc.TypeName,
		},
		Encoder: demoEncoder{},
	}

	compileStart := time.Now()
	qp, err := compile.Compile(tag, req)
	if err != nil {
		fatal(err)
	}
	collector.AddTiming(annotations.CompileComplete, compileStart, map[string]interface{}{
		"ranges":    len(qp.Ranges),
		"iterators": len(qp.Iterators),
	})

	printPlan(tag, qp)
}

// printEvent renders one annotation event as a single colored line, the
// -verbose trace.
func printEvent(ev annotations.Event) {
	line := color.YellowString("[%s]", ev.Name)
	keys := make([]string, 0, len(ev.Data))
	for k := range ev.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += " " + color.CyanString("%s=%v", k, ev.Data[k])
	}
	if ev.Latency > 0 {
		line += " " + color.CyanString("took=%v", ev.Latency)
	}
	fmt.Println(line)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	os.Exit(1)
}

// buildFilter assembles an AND of whichever predicate flags were set. With
// no flags set, returns filter.IncludeAll.
func buildFilter(eq, like, ids, bbox string) (filter.Filter, error) {
	var conjuncts []filter.Filter

	if eq != "" {
		name, val, ok := strings.Cut(eq, "=")
		if !ok {
			return nil, fmt.Errorf("-eq must be name=value, got %q", eq)
		}
		conjuncts = append(conjuncts, filter.PropertyEq{Name: name, Literal: val})
	}
	if like != "" {
		name, pattern, ok := strings.Cut(like, "=")
		if !ok {
			return nil, fmt.Errorf("-like must be name=pattern, got %q", like)
		}
		conjuncts = append(conjuncts, filter.PropertyLike{Name: name, Pattern: pattern, CaseInsensitive: true})
	}
	if ids != "" {
		conjuncts = append(conjuncts, filter.IdIn{IDs: strings.Split(ids, ",")})
	}
	if bbox != "" {
		poly, err := parseBBox(bbox)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, filter.SpatialPredicate{Op: filter.SpatialBBox, Geometry: poly})
	}

	switch len(conjuncts) {
	case 0:
		return filter.IncludeAll{}, nil
	case 1:
		return conjuncts[0], nil
	default:
		return filter.And{Children: conjuncts}, nil
	}
}

func parseBBox(s string) (geom.Polygon, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Polygon{}, fmt.Errorf("-bbox must be minX,minY,maxX,maxY, got %q", s)
	}
	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Polygon{}, fmt.Errorf("-bbox: %w", err)
		}
		coords[i] = v
	}
	return geom.FromBound(orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	}), nil
}

func printPlan(tag plan.StrategyTag, qp *plan.QueryPlan) {
	bold := color.New(color.Bold)
	bold.Println("Strategy:", tag.String())

	if qp.Empty() {
		fmt.Println(color.YellowString("plan selects zero rows (EmptyResult short-circuit)"))
		return
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"Start", "End"})
	for _, r := range qp.Ranges {
		table.Append([]string{displayBytes(r.Start), displayBytes(r.End)})
	}
	table.Render()

	fmt.Println()
	itTable := tablewriter.NewTable(os.Stdout)
	itTable.Header([]string{"Priority", "Name", "Class"})
	for _, it := range qp.Iterators {
		itTable.Append([]string{strconv.Itoa(int(it.Priority)), it.Name, it.ClassName})
	}
	itTable.Render()
}

func displayBytes(b []byte) string {
	if b == nil {
		return "(unbounded)"
	}
	return string(b)
}

// demoEncoder is a trivial, non-production KeyEncoder stand-in for CLI
// demonstration: the true geohash/time-bucket expansion grammar lives
// outside this module (§1).
type demoEncoder struct{}

func (demoEncoder) EncodeRanges(f keyplan.KeyPlanningFilter) ([]plan.ByteRange, error) {
	return []plan.ByteRange{{Start: []byte("cell-0000"), End: []byte("cell-ffff")}}, nil
}

func (demoEncoder) EncodeRegex(f keyplan.KeyPlanningFilter) (plan.Regex, error) {
	return plan.NoRegex, nil
}

func (demoEncoder) ColumnFamilies(f keyplan.KeyPlanningFilter) (plan.ColumnFamilyPlan, error) {
	return plan.AllColumnFamilies(), nil
}
