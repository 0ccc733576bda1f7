package automatic

// Automatic play at scale: many games over many goroutines, with the
// results collected into a Report.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ennecoded/enneagrams/config"
	"github.com/ennecoded/enneagrams/game"
	"github.com/ennecoded/enneagrams/stats"
)

var (
	GamesCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	GamesCounter = expvar.NewInt("autoplayGames")
	IsPlaying = expvar.NewInt("isPlaying")
}

// Options control a batch of automatic games.
type Options struct {
	NumGames int
	Threads  int
	Moves    int
	// OutputFilename, if set, receives one CSV record per game.
	OutputFilename string
	// Seeds fix the first len(Seeds) games.
	Seeds [][32]byte
}

// Report aggregates the results of many games.
type Report struct {
	Games    int
	Events   int
	Outcomes [3]int
	InPlay   stats.Statistic
	Placed   stats.Statistic
	Rows     stats.Statistic
	Cols     stats.Statistic
	inPlay   []float64
}

func (rep *Report) add(res GameResult) {
	rep.Games++
	rep.Events += res.Events
	for i, n := range res.Outcomes {
		rep.Outcomes[i] += n
	}
	rep.InPlay.Push(float64(res.InPlay))
	rep.Placed.Push(float64(res.Placed))
	rep.Rows.Push(float64(res.Rows))
	rep.Cols.Push(float64(res.Cols))
	rep.inPlay = append(rep.inPlay, float64(res.InPlay))
}

// Fprint writes the report, including a histogram of the number of tiles
// in play at the end of each game.
func (rep *Report) Fprint(w io.Writer) error {
	fmt.Fprintf(w, "Games played: %d\n", rep.Games)
	fmt.Fprintf(w, "Events: %d (applied %d, rejected %d, ignored %d)\n", rep.Events,
		rep.Outcomes[game.Applied], rep.Outcomes[game.Rejected], rep.Outcomes[game.Ignored])
	if rep.Games == 0 {
		return nil
	}
	fmt.Fprintf(w, "Tiles in play: %.3f ± %.3f (99%%)  Stdev: %.3f  Range: %g-%g\n",
		rep.InPlay.Mean(), rep.InPlay.ConfidenceInterval(99), rep.InPlay.Stdev(),
		rep.InPlay.Min(), rep.InPlay.Max())
	fmt.Fprintf(w, "Tiles on the grid: %.3f  Stdev: %.3f\n", rep.Placed.Mean(), rep.Placed.Stdev())
	fmt.Fprintf(w, "Final grid: %.2f x %.2f (largest %g x %g)\n",
		rep.Rows.Mean(), rep.Cols.Mean(), rep.Rows.Max(), rep.Cols.Max())
	fmt.Fprintln(w, "Tiles in play at the end of the game:")
	hist := histogram.Hist(min(10, len(rep.inPlay)), rep.inPlay)
	return histogram.Fprint(w, hist, histogram.Linear(40))
}

type job struct {
	id   int
	seed *[32]byte
}

// PlayGames plays opts.NumGames games spread over opts.Threads goroutines
// and stops at the first broken invariant.
func PlayGames(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	if opts.Moves < 0 {
		opts.Moves = DefaultMovesPerGame
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	log.Debug().Msgf("Starting %v games, %v threads", opts.NumGames, opts.Threads)

	var logChan chan string
	writer := errgroup.Group{}
	if opts.OutputFilename != "" {
		logfile, err := os.Create(opts.OutputFilename)
		if err != nil {
			return nil, err
		}
		logChan = make(chan string, 100)
		writer.Go(func() error {
			defer logfile.Close()
			if _, err := io.WriteString(logfile, csvHeader); err != nil {
				return err
			}
			var werr error
			for msg := range logChan {
				if werr == nil {
					_, werr = io.WriteString(logfile, msg)
				}
			}
			log.Debug().Msg("Exiting game logger goroutine")
			return werr
		})
	}

	report := &Report{}
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job)

	g.Go(func() error {
		defer close(jobs)
		for i := range opts.NumGames {
			j := job{id: i}
			if i < len(opts.Seeds) {
				j.seed = &opts.Seeds[i]
			}
			select {
			case jobs <- j:
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return ctx.Err()
			}
		}
		return nil
	})

	for t := 0; t < opts.Threads; t++ {
		g.Go(func() error {
			runner, err := NewGameRunner(logChan, cfg)
			if err != nil {
				return err
			}
			for j := range jobs {
				runner.Init(j.seed)
				res, err := runner.PlayGame(j.id, opts.Moves)
				if err != nil {
					return fmt.Errorf("game %d: %w", j.id, err)
				}
				mu.Lock()
				report.add(res)
				mu.Unlock()
				GamesCounter.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	if logChan != nil {
		close(logChan)
	}
	if werr := writer.Wait(); err == nil {
		err = werr
	}
	if err != nil {
		return report, err
	}
	log.Info().Int("games", report.Games).Int("events", report.Events).Msg("All games finished.")
	return report, nil
}
