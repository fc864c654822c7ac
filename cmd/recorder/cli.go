package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ricksterhd123/recorder/internal/controller"
	"github.com/ricksterhd123/recorder/internal/dispatcher"
	"github.com/ricksterhd123/recorder/internal/metrics"
	"github.com/ricksterhd123/recorder/internal/sched"
	"github.com/ricksterhd123/recorder/internal/util"
)

const helpText = `commands:
  load <name>         load a recording from the library (session must be clear)
  record [name]       start or resume capturing
  stop                stop capturing, freeze the target
  seek <frame|end>    scrub to a frame
  play [loop]         play back (loop defaults to true)
  pause               pause playback
  save [name]         save to the library, optionally renaming
  clear               drop the current recording and player
  status              show session state
  stats               show path statistics
  list                list the library
  delete <name>       remove a recording from the library
  help                this text
  exit                quit`

// arg returns the nth argument or the empty string.
func arg(e dispatcher.Event, n int) string {
	if n < len(e.Args) {
		return e.Args[n]
	}
	return ""
}

// onLoop wraps a session call so it executes on the run loop.
func onLoop(loop *sched.Loop, fn func(dispatcher.Event) (any, error)) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (result any, err error) {
		loop.Do(func() {
			result, err = fn(e)
		})
		return result, err
	}
}

func registerCommands(d *dispatcher.Dispatcher, sess *controller.Session, loop *sched.Loop) {
	d.Register("load", onLoop(loop, func(e dispatcher.Event) (any, error) {
		name := arg(e, 0)
		if name == "" {
			return nil, fmt.Errorf("usage: load <name>")
		}
		if err := sess.Load(name); err != nil {
			return nil, err
		}
		return fmt.Sprintf("loaded %q (%d frames)", name, sess.Recording().Len()), nil
	}), dispatcher.Logged())

	d.Register("record", onLoop(loop, func(e dispatcher.Event) (any, error) {
		if err := sess.Record(arg(e, 0)); err != nil {
			return nil, err
		}
		return fmt.Sprintf("recording %q", sess.Recording().Filename()), nil
	}), dispatcher.Logged())

	d.Register("stop", onLoop(loop, func(e dispatcher.Event) (any, error) {
		if err := sess.Stop(); err != nil {
			return nil, err
		}
		return fmt.Sprintf("stopped at frame %d", sess.Recording().Cursor()), nil
	}), dispatcher.Logged())

	d.Register("seek", onLoop(loop, func(e dispatcher.Event) (any, error) {
		if arg(e, 0) == "" {
			return nil, fmt.Errorf("usage: seek <frame|end>")
		}
		cursor, err := sess.Seek(arg(e, 0))
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("cursor: %d", cursor), nil
	}), dispatcher.Logged())

	d.Register("play", onLoop(loop, func(e dispatcher.Event) (any, error) {
		looped, err := util.ParseBoolArg(arg(e, 0), true)
		if err != nil {
			return nil, err
		}
		if err := sess.Play(looped); err != nil {
			return nil, err
		}
		return fmt.Sprintf("playing (loop=%t)", looped), nil
	}), dispatcher.Logged())

	d.Register("pause", onLoop(loop, func(e dispatcher.Event) (any, error) {
		if err := sess.Pause(); err != nil {
			return nil, err
		}
		return "paused", nil
	}), dispatcher.Logged())

	d.Register("save", onLoop(loop, func(e dispatcher.Event) (any, error) {
		if err := sess.Save(arg(e, 0)); err != nil {
			return nil, err
		}
		return fmt.Sprintf("saved %q", sess.Recording().Filename()), nil
	}), dispatcher.Logged())

	d.Register("clear", onLoop(loop, func(e dispatcher.Event) (any, error) {
		sess.Clear()
		return "cleared", nil
	}), dispatcher.Logged())

	d.Register("status", onLoop(loop, func(e dispatcher.Event) (any, error) {
		snap, ok := sess.Status()
		if !ok {
			return "no recording loaded", nil
		}
		return fmt.Sprintf(
			"%s [%s] frames=%d cursor=%d rate=%dHz capturing=%t playing=%t looped=%t frozen=%t",
			snap.Recording, snap.Shape, snap.Frames, snap.Cursor, snap.SampleRateHz,
			snap.Capturing, snap.Playing, snap.Looped, snap.Frozen), nil
	}))

	d.Register("stats", onLoop(loop, func(e dispatcher.Event) (any, error) {
		stats, err := sess.Stats()
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("frames=%d duration=%s distance=%.1f ground=%.1f min=(%.1f,%.1f,%.1f) max=(%.1f,%.1f,%.1f)",
			stats.Frames, stats.Duration, stats.Distance, stats.GroundDistance,
			stats.Min.X, stats.Min.Y, stats.Min.Z,
			stats.Max.X, stats.Max.Y, stats.Max.Z), nil
	}))

	d.Register("list", func(e dispatcher.Event) (any, error) {
		infos, err := sess.List()
		if err != nil {
			return nil, err
		}
		if len(infos) == 0 {
			return "library is empty", nil
		}
		lines := make([]string, 0, len(infos))
		for _, in := range infos {
			lines = append(lines, fmt.Sprintf("%-24s %5d frames @ %dHz  %s",
				in.Name, in.Frames, in.SampleRateHz, in.SavedAt.Format(time.DateTime)))
		}
		sort.Strings(lines)
		return strings.Join(lines, "\n"), nil
	})

	d.Register("delete", func(e dispatcher.Event) (any, error) {
		name := arg(e, 0)
		if name == "" {
			return nil, fmt.Errorf("usage: delete <name>")
		}
		if err := sess.Delete(name); err != nil {
			return nil, err
		}
		return fmt.Sprintf("deleted %q", name), nil
	}, dispatcher.Logged())

	d.Register("help", func(e dispatcher.Event) (any, error) {
		return helpText, nil
	})
}

func runConsole(ctx context.Context, d *dispatcher.Dispatcher, influx *metrics.Manager, log *slog.Logger) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Println("recorder console, type 'help' for commands")
	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			if fields[0] == "exit" || fields[0] == "quit" {
				return
			}

			start := time.Now()
			result, err := d.Dispatch(dispatcher.Event{
				Command:   fields[0],
				Args:      fields[1:],
				Timestamp: start,
			})
			if influx != nil {
				point := metrics.CommandPoint(fields[0], err == nil, time.Since(start), start)
				if werr := influx.WritePoint(ctx, metrics.BucketCommands, point); werr != nil {
					log.Warn("failed to ship command metrics", "error", werr)
				}
			}
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if s, ok := result.(string); ok && s != "" {
				fmt.Println(s)
			}
		}
	}
}
