package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/crowdpredictor/trafficmap/pkg/backend"
)

type healthView struct {
	Health backend.Health     `json:"health"`
	Model  *backend.ModelInfo `json:"model,omitempty"`
}

func (a *App) healthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show backend health and the prediction model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			h, err := a.backend.Health(ctx)
			if err != nil {
				return describe(err)
			}
			v := healthView{Health: h}
			if info, err := a.backend.ModelInfo(ctx); err == nil {
				v.Model = &info
			}

			if err := a.emit(cmd, v, v.print); err != nil {
				return err
			}
			if !h.Healthy() {
				return fmt.Errorf("backend is %s", h.Status)
			}
			return nil
		},
	}
}

func (v healthView) print(w io.Writer) error {
	fmt.Fprintf(w, "status: %s\n", v.Health.Status)
	fmt.Fprintf(w, "model available: %t\n", v.Health.ModelAvailable)
	if v.Model == nil {
		return nil
	}
	fmt.Fprintf(w, "model: %s (%d features)\n", v.Model.ModelType, v.Model.FeatureCount)
	levels := make([]string, 0, len(v.Model.TrafficLevels))
	for k := range v.Model.TrafficLevels {
		levels = append(levels, k)
	}
	slices.Sort(levels)
	for _, k := range levels {
		l := v.Model.TrafficLevels[k]
		fmt.Fprintf(w, "  %s: %s (%s)\n", k, l.Name, l.Description)
	}
	return nil
}
