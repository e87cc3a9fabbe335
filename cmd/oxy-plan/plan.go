package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-compose/engine/composition"
	"github.com/Carmen-Shannon/oxy-compose/engine/render_target"
)

// writePlan prints a summary line followed by one row per render action.
func writePlan(w io.Writer, c composition.Composition, flags composition.UpdateFlags) error {
	actions := c.RenderActions()
	if _, err := fmt.Fprintf(w, "%s: %d actions, %d lights, %d cameras, %d clusters (updated %s)\n",
		c.Name(), len(actions), len(c.Lights()), len(c.Cameras()), len(c.WorldClusters()), flags); err != nil {
		return err
	}

	layers := c.LayerList()
	subs := c.SubLayerList()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCAMERA\tLAYER\tTARGET\tCLEAR\tCLUSTERS\tMARKS\tDIRECTIONAL")
	for i, ra := range actions {
		clusters := "-"
		if ra.LightClusters != nil {
			clusters = ra.LightClusters.Name()
		}
		directional := make([]string, 0, len(ra.DirectionalLights))
		for _, l := range ra.DirectionalLights {
			directional = append(directional, l.Name())
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i,
			ra.Camera.Name(),
			subLayerName(layers[ra.LayerIndex].Name(), subs[ra.LayerIndex]),
			render_target.Label(ra.RenderTarget),
			ra.ClearFlags(),
			clusters,
			marks(ra),
			orDash(strings.Join(directional, ",")),
		)
	}
	return tw.Flush()
}

func subLayerName(name string, transparent bool) string {
	if transparent {
		return name + "/transparent"
	}
	return name + "/opaque"
}

// marks abbreviates the camera boundary flags: F first use, L last use, P postprocess.
func marks(ra *composition.RenderAction) string {
	var b strings.Builder
	if ra.FirstCameraUse {
		b.WriteByte('F')
	}
	if ra.LastCameraUse {
		b.WriteByte('L')
	}
	if ra.IsPostprocessBoundary() {
		b.WriteByte('P')
	}
	return orDash(b.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
