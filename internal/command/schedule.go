package command

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-showtime-service/internal/config"
	"github.com/iliyamo/cinema-showtime-service/internal/container"
	"github.com/iliyamo/cinema-showtime-service/internal/model"
	"github.com/iliyamo/cinema-showtime-service/internal/service"
)

var (
	scheduleMovie uint64
	scheduleFrom  string
	scheduleTo    string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the showtimes of a movie",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := parseRange(scheduleFrom, scheduleTo)
		if err != nil {
			return err
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		c, err := container.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer c.Close()

		movie, err := c.Movies.GetByID(ctx, scheduleMovie)
		if err != nil {
			return err
		}
		s, err := c.Showtimes.FindSchedule(ctx, scheduleMovie, from, to)
		if err != nil {
			return err
		}
		renderSchedule(os.Stdout, movie.Title, s)
		return nil
	},
}

func init() {
	scheduleCmd.Flags().Uint64Var(&scheduleMovie, "movie", 0, "movie id")
	scheduleCmd.Flags().StringVar(&scheduleFrom, "from", "", "first date, YYYY-MM-DD (default today)")
	scheduleCmd.Flags().StringVar(&scheduleTo, "to", "", "last date, YYYY-MM-DD (default open)")
	_ = scheduleCmd.MarkFlagRequired("movie")
}

func parseRange(from, to string) (*model.Date, *model.Date, error) {
	parse := func(s string) (*model.Date, error) {
		if s == "" {
			return nil, nil
		}
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, err
		}
		return &d, nil
	}
	f, err := parse(from)
	if err != nil {
		return nil, nil, fmt.Errorf("--from: %w", err)
	}
	t, err := parse(to)
	if err != nil {
		return nil, nil, fmt.Errorf("--to: %w", err)
	}
	return f, t, nil
}

// renderSchedule prints one row per screening, merging repeated dates.
func renderSchedule(w io.Writer, title string, s service.Schedule) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
	t.AppendHeader(table.Row{"Date", "Time", "Price", "Showtime"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
	t.Style().Options.SeparateRows = true

	for _, day := range s.Days {
		for _, h := range day.Hours {
			t.AppendRow(table.Row{day.Date.String(), h.Time.String(), h.Price.String(), h.ShowtimeID}, rowConfigAutoMerge)
		}
	}
	if len(s.Days) == 0 {
		t.AppendFooter(table.Row{"no showtimes", "", "", ""})
	}
	t.Render()
}
