// Command aligncli reads an alignment definition JSON from a file argument
// (or stdin), rebuilds the engines, and reports on the design: a station
// table, a validation report, and optional DXF/GeoJSON output files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/saikeicivil/alignment"
	"github.com/saikeicivil/alignment/export"
)

func main() {
	var (
		planPath     = flag.String("plan", "", "write the plan drawing to this DXF file")
		profilePath  = flag.String("profile", "", "write the profile drawing to this DXF file")
		exaggeration = flag.Float64("exaggeration", 10, "vertical exaggeration for the profile drawing")
		geojsonPath  = flag.String("geojson", "", "write the sampled centerline to this GeoJSON file")
		interval     = flag.Float64("interval", 0, "centerline sampling interval (0 uses the default)")
		quiet        = flag.Bool("quiet", false, "suppress the station table")
	)
	flag.Parse()

	var (
		data []byte
		err  error
	)
	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fatal("reading input: %v", err)
	}

	var def alignment.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		fatal("parsing definition: %v", err)
	}
	design, err := def.Build()
	if err != nil {
		fatal("building alignment: %v", err)
	}

	printSummary(design)
	if !*quiet {
		printStations(design)
	}
	printWarnings(design)

	if *planPath != "" {
		if err := export.PlanToDXF(design.Horizontal, *planPath); err != nil {
			fatal("writing plan: %v", err)
		}
		fmt.Printf("wrote %s\n", *planPath)
	}
	if *profilePath != "" {
		if err := export.ProfileToDXF(design.Vertical, *profilePath, *exaggeration); err != nil {
			fatal("writing profile: %v", err)
		}
		fmt.Printf("wrote %s\n", *profilePath)
	}
	if *geojsonPath != "" {
		fc, err := export.CenterlineFeatures(design, *interval)
		if err != nil {
			fatal("sampling centerline: %v", err)
		}
		out, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			fatal("encoding GeoJSON: %v", err)
		}
		if err := os.WriteFile(*geojsonPath, out, 0644); err != nil {
			fatal("writing GeoJSON: %v", err)
		}
		fmt.Printf("wrote %s\n", *geojsonPath)
	}
}

func printSummary(design *alignment.Design) {
	h := design.Horizontal
	fmt.Printf("%s: %d PIs, length %.3f, stations %s to %s\n",
		design.Def.Name, len(h.Points()), h.Length(),
		alignment.FormatStation(h.StartStation()), alignment.FormatStation(h.EndStation()))
	if bounds, err := h.Bounds(); err == nil {
		fmt.Printf("plan extent: (%.3f, %.3f) to (%.3f, %.3f)\n",
			bounds.X0, bounds.Y0, bounds.X1, bounds.Y1)
	}
	if design.Centerline != nil {
		min, max := design.Centerline.StationRange()
		fmt.Printf("profile coverage: %s to %s\n",
			alignment.FormatStation(min), alignment.FormatStation(max))
	}
}

func printStations(design *alignment.Design) {
	if design.Stationing == nil {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DIST\tSTATION\tLABEL")
	for _, ref := range design.Stationing.Referents() {
		station := alignment.FormatStation(ref.Station)
		if ref.IncomingStation != nil {
			station = fmt.Sprintf("%s = %s back",
				station, alignment.FormatStation(*ref.IncomingStation))
		}
		fmt.Fprintf(w, "%.2f\t%s\t%s\n", ref.DistanceAlong, station, ref.Label)
	}
	w.Flush()
}

func printWarnings(design *alignment.Design) {
	warnings := design.Warnings()
	if len(warnings) == 0 {
		fmt.Println("validation: ok")
		return
	}
	for _, warn := range warnings {
		fmt.Printf("warning: %s\n", warn.Message)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
