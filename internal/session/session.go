package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	mmetrics "bikeshare/internal/metrics"
	"bikeshare/internal/prompt"
	"bikeshare/internal/stats"
	"bikeshare/internal/trips"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

const (
	NoResults     = "no results, please alter search and try again..."
	NoUserStats   = "No user stats for selected city"
	RestartPrompt = "\nWould you like to restart? Enter yes or no.\n"
)

// Publisher receives the summary of every iteration that produced results.
type Publisher interface {
	PublishSummary(s stats.Summary) error
}

// Session drives the prompt, load, report, restart loop.
type Session struct {
	prompter *prompt.Prompter
	loader   *trips.Loader
	out      io.Writer
	pub      Publisher
	metrics  *mmetrics.Collector

	state State
	title cases.Caser
	now   func() time.Time
	newID func() string
}

// New returns a running session. pub and metrics may be nil.
func New(p *prompt.Prompter, loader *trips.Loader, out io.Writer, pub Publisher, metrics *mmetrics.Collector) *Session {
	return &Session{
		prompter: p,
		loader:   loader,
		out:      out,
		pub:      pub,
		metrics:  metrics,
		state:    Running,
		title:    cases.Title(language.English),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Session) State() State { return s.state }

// Run iterates until the user stops or declines to restart. A load error
// ends the run and is returned.
func (s *Session) Run(ctx context.Context) error {
	for s.state == Running {
		if err := s.iterate(ctx); err != nil {
			s.state = Stopped
			return err
		}
	}
	return nil
}

func (s *Session) iterate(ctx context.Context) error {
	if s.metrics != nil {
		s.metrics.Iterations.Inc()
	}
	sel, err := s.prompter.Filters()
	if err != nil {
		return err
	}
	if sel.Stopped {
		s.state = Stopped
		return nil
	}
	if s.metrics != nil {
		s.metrics.Selections.WithLabelValues(sel.City).Inc()
	}

	start := s.now()
	tbl, err := s.loader.Load(ctx, sel)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.LoadDuration.Observe(s.now().Sub(start).Seconds())
		s.metrics.RowsSelected.Add(float64(tbl.Len()))
	}

	if tbl.Empty() {
		if s.metrics != nil {
			s.metrics.EmptyResults.Inc()
		}
		fmt.Fprintln(s.out, NoResults)
	} else {
		fmt.Fprintf(s.out, "%s: %d trips (month: %s, day: %s)\n", s.title.String(sel.City), tbl.Len(), sel.Month, sel.Day)
		summary, err := s.report(sel, tbl)
		if err != nil {
			return err
		}
		s.publish(summary)
	}

	answer, err := s.prompter.Confirm(RestartPrompt)
	if err != nil {
		return err
	}
	if answer != prompt.Affirmative {
		s.state = Stopped
	}
	return nil
}

// report runs every reporter the table supports and collects the results.
func (s *Session) report(sel trips.Selection, tbl *trips.Table) (stats.Summary, error) {
	sum := stats.NewSummary(s.newID(), sel, tbl, s.now())

	err := s.section("time", stats.TimeHeading, func() (renderer, error) {
		r, err := stats.TimeStats(tbl)
		sum.Time = &r
		return r, err
	})
	if err != nil {
		return sum, err
	}
	err = s.section("station", stats.StationHeading, func() (renderer, error) {
		r, err := stats.StationStats(tbl)
		sum.Stations = &r
		return r, err
	})
	if err != nil {
		return sum, err
	}
	err = s.section("duration", stats.DurationHeading, func() (renderer, error) {
		r, err := stats.DurationStats(tbl)
		sum.Duration = &r
		return r, err
	})
	if err != nil {
		return sum, err
	}

	if !tbl.HasDemographics() {
		fmt.Fprintln(s.out, NoUserStats)
		return sum, nil
	}
	err = s.section("user", stats.UserHeading, func() (renderer, error) {
		r, err := stats.UserStats(tbl)
		sum.Users = &r
		return r, err
	})
	return sum, err
}

type renderer interface {
	Render(w io.Writer) error
}

func (s *Session) section(name, heading string, compute func() (renderer, error)) error {
	fmt.Fprintf(s.out, "\n%s\n\n", heading)
	start := s.now()
	r, err := compute()
	if err != nil {
		return fmt.Errorf("%s stats: %w", name, err)
	}
	if err := r.Render(s.out); err != nil {
		return err
	}
	took := s.now().Sub(start)
	if s.metrics != nil {
		s.metrics.ReportDuration.WithLabelValues(name).Observe(took.Seconds())
	}
	fmt.Fprintf(s.out, "\nThis took %v seconds.\n", took.Seconds())
	fmt.Fprintln(s.out, prompt.Separator)
	return nil
}

func (s *Session) publish(sum stats.Summary) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishSummary(sum); err != nil {
		log.Printf("publish summary %s for %q: %v", sum.RunID, sum.City, err)
	}
}
