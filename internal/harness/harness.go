// Package harness runs scripted lifecycle scenarios against a fresh
// database and snapshots the outcome for golden-file comparison. With the
// clock, random source, and ID generator pinned, a scenario produces
// byte-identical snapshots across runs.
package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/game"
	"github.com/verdantloop/garden/internal/scheduler"
	"github.com/verdantloop/garden/internal/store"
	"github.com/verdantloop/garden/internal/testutil"
)

// scenarioEpoch is the fixed instant every scenario starts at.
var scenarioEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Event records the outcome of one step.
type Event struct {
	// Step describes the executed step.
	Step string `json:"step"`

	// Status is "ok" or the game error code the step was rejected with.
	Status string `json:"status"`

	// Detail carries step-specific outcome information.
	Detail string `json:"detail,omitempty"`
}

// Snapshot is the full deterministic output of a scenario run.
type Snapshot struct {
	Scenario  string                `json:"scenario"`
	Events    []Event               `json:"events"`
	Fields    []entity.FieldState   `json:"fields"`
	Inventory []store.InventoryItem `json:"inventory"`
	Balances  store.Balances        `json:"balances"`
}

// Run executes a scenario against a fresh database at dbPath.
//
// Game-rule rejections are recorded as events and the run continues, the
// way a real client would see them. Infrastructure errors abort the run.
func Run(scenario *Scenario, dbPath string) (*Snapshot, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.EnsureFields(ctx, scenario.User, game.DefaultFieldLayout()); err != nil {
		return nil, fmt.Errorf("bootstrap fields: %w", err)
	}

	clock := testutil.NewManualClock(scenarioEpoch)
	src := testutil.NewQueuedSource(scenario.Random...)
	ids := testutil.NewSequenceIDGenerator("ent")
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := game.NewService(st, game.DefaultCatalog(),
		game.WithClock(clock.Now),
		game.WithRandomSource(src),
		game.WithIDGenerator(ids),
		game.WithLogger(quiet),
	)
	sweeper := scheduler.NewSweeper(st, game.DefaultCatalog(),
		scheduler.WithRandomSource(src),
		scheduler.WithIDGenerator(ids),
		scheduler.WithLogger(quiet),
	)

	var events []Event
	for i, step := range scenario.Steps {
		event, err := runStep(ctx, scenario.User, step, svc, sweeper, st, clock)
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		events = append(events, event)
	}

	fields, err := svc.FieldStates(ctx, scenario.User)
	if err != nil {
		return nil, fmt.Errorf("final field states: %w", err)
	}
	inventory, err := st.ListInventory(ctx, scenario.User)
	if err != nil {
		return nil, fmt.Errorf("final inventory: %w", err)
	}
	balances, err := st.UserBalances(ctx, scenario.User)
	if err != nil {
		return nil, fmt.Errorf("final balances: %w", err)
	}

	return &Snapshot{
		Scenario:  scenario.Name,
		Events:    events,
		Fields:    fields,
		Inventory: inventory,
		Balances:  balances,
	}, nil
}

// runStep executes one step and renders its event. A game-rule rejection
// becomes the event status; any other error aborts.
func runStep(ctx context.Context, user string, step Step, svc *game.Service, sweeper *scheduler.Sweeper, st *store.Store, clock *testutil.ManualClock) (Event, error) {
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return Event{}, err
		}
		clock.Advance(d)
		return Event{Step: "advance " + d.String(), Status: "ok"}, nil
	}

	now := clock.Now()
	switch step.Command {
	case CmdGive:
		qty := step.Qty
		if qty == 0 {
			qty = 1
		}
		label := fmt.Sprintf("give %s %s x%d", step.Kind, step.Species, qty)
		if err := st.AddItem(ctx, user, step.Kind, step.Species, qty); err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok"}, nil

	case CmdPlaceBouquet:
		label := fmt.Sprintf("place_bouquet field=%d species=%s", step.Field, step.Species)
		placed, err := svc.PlaceBouquet(ctx, user, step.Field, step.Species)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		detail := fmt.Sprintf("first spawn in %s, withers in %s",
			placed.NextTransitionAt.Sub(now), placed.ExpiresAt.Sub(now))
		return Event{Step: label, Status: "ok", Detail: detail}, nil

	case CmdPlaceFlower:
		label := fmt.Sprintf("place_flower field=%d species=%s", step.Field, step.Species)
		placed, err := svc.PlaceFlower(ctx, user, step.Field, step.Species)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		detail := fmt.Sprintf("matures in %s", placed.NextTransitionAt.Sub(now))
		return Event{Step: label, Status: "ok", Detail: detail}, nil

	case CmdFeed:
		kind := entity.Kind(step.Kind)
		if step.Kind == "" {
			kind = entity.KindCaterpillar
		}
		label := fmt.Sprintf("feed field=%d species=%s kind=%s", step.Field, step.Species, kind)
		res, err := svc.Feed(ctx, user, step.Field, step.Species, kind)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		detail := fmt.Sprintf("count %d", res.Progress.Count)
		if res.Fish != nil {
			detail = fmt.Sprintf("fish %s (%s)", res.Fish.SpeciesID, res.Fish.Rarity)
		}
		return Event{Step: label, Status: "ok", Detail: detail}, nil

	case CmdCollectButterfly:
		label := fmt.Sprintf("collect_butterfly field=%d", step.Field)
		got, err := svc.CollectButterfly(ctx, user, step.Field)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok",
			Detail: fmt.Sprintf("%s (%s)", got.SpeciesID, got.Rarity)}, nil

	case CmdCollectCaterpillar:
		label := fmt.Sprintf("collect_caterpillar field=%d", step.Field)
		got, err := svc.CollectCaterpillar(ctx, user, step.Field)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok",
			Detail: fmt.Sprintf("%s (%s)", got.SpeciesID, got.Rarity)}, nil

	case CmdCollectFish:
		label := fmt.Sprintf("collect_fish field=%d", step.Field)
		got, err := svc.CollectFish(ctx, user, step.Field)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok",
			Detail: fmt.Sprintf("%s (%s)", got.SpeciesID, got.Rarity)}, nil

	case CmdCollectSun:
		label := fmt.Sprintf("collect_sun field=%d", step.Field)
		amount, err := svc.CollectSun(ctx, user, step.Field)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok",
			Detail: fmt.Sprintf("amount %d", amount)}, nil

	case CmdSpawnSun:
		amount := step.Amount
		if amount == 0 {
			amount = 1
		}
		label := fmt.Sprintf("spawn_sun field=%d amount=%d", step.Field, amount)
		_, err := svc.SpawnSun(ctx, user, step.Field, amount)
		if rejected, event := rejection(label, err); rejected {
			return event, nil
		}
		if err != nil {
			return Event{}, err
		}
		return Event{Step: label, Status: "ok"}, nil

	case CmdSweep:
		stats, err := sweeper.Sweep(ctx, now)
		if err != nil {
			return Event{}, err
		}
		return Event{Step: "sweep", Status: "ok",
			Detail: fmt.Sprintf("%d transitions, %d failures", stats.Total(), stats.Failures)}, nil
	}

	return Event{}, fmt.Errorf("unknown command %q", step.Command)
}

// rejection converts a game-rule error into a recorded event.
func rejection(label string, err error) (bool, Event) {
	code := game.CodeOf(err)
	if code == "" {
		return false, Event{}
	}
	return true, Event{Step: label, Status: string(code)}
}
