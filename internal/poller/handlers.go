package poller

import (
	"encoding/json"
	"fmt"

	"bbdash/internal/logger"
	"bbdash/internal/model"
	"bbdash/internal/render"
	"bbdash/internal/repository"
	"bbdash/internal/state"

	"go.uber.org/zap"
)

// Channel names, matching the keys of the master's combined status payload.
const (
	ChannelProject       = "project"
	ChannelCurrentBuilds = "current_builds"
	ChannelBuilds        = "builds"
	ChannelPending       = "pending_builds"
	ChannelSlaves        = "slaves"
	ChannelGlobal        = "globalstatus"
	ChannelQueue         = "buildqueue"
)

// RegisterHandlers binds the channel handlers to the snapshot store. history
// may be nil when the daemon runs without a database.
func RegisterHandlers(r *Registry, store *state.Store, history *repository.BuildRepository) {
	r.Register(ChannelCurrentBuilds, currentBuildsHandler(store))
	r.Register(ChannelBuilds, recentBuildsHandler(store, history))
	r.Register(ChannelPending, pendingBuildsHandler(store))
	r.Register(ChannelSlaves, slavesHandler(store))
	r.Register(ChannelProject, projectHandler(store))
	r.Register(ChannelGlobal, globalHandler(store))
	r.Register(ChannelQueue, queueHandler(store))
}

// currentBuildsHandler consumes the builder object. A payload without a
// currentBuilds list clears the table; that is the master's way of saying
// nothing is running, not an error.
func currentBuildsHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		var builder struct {
			CurrentBuilds []model.Build `json:"currentBuilds"`
		}
		if err := json.Unmarshal(payload, &builder); err != nil {
			return fmt.Errorf("failed to decode builder payload: %w", err)
		}

		if builder.CurrentBuilds == nil {
			store.ClearCurrentBuilds()
			return nil
		}

		store.ReplaceCurrentBuilds(builder.CurrentBuilds)
		return nil
	}
}

func recentBuildsHandler(store *state.Store, history *repository.BuildRepository) Handler {
	return func(payload json.RawMessage) error {
		var builds []model.Build
		if err := json.Unmarshal(payload, &builds); err != nil {
			return fmt.Errorf("failed to decode builds payload: %w", err)
		}

		store.ReplaceRecentBuilds(builds)

		if history != nil {
			recordFinished(history, builds)
		}

		return nil
	}
}

// recordFinished persists finished builds to the local history. Duplicate
// (builder, number) pairs are dropped by the repository, which keeps the
// handler idempotent across polls.
func recordFinished(history *repository.BuildRepository, builds []model.Build) {
	for _, b := range builds {
		if !b.Finished() {
			continue
		}

		if seen, err := history.Seen(b.BuilderName, b.Number); err == nil && seen {
			continue
		}

		started, _ := b.StartTime()
		finished, _ := b.EndTime()

		rec := model.BuildRecord{
			Builder:    b.BuilderName,
			Number:     b.Number,
			Result:     *b.Results,
			Revision:   render.Revision(b, render.SourceKeyStamps),
			Owner:      render.Owner(b),
			Reason:     b.Reason,
			Slave:      b.Slave,
			StartedAt:  started,
			FinishedAt: finished,
		}

		if err := history.Save(rec); err != nil {
			logger.Log.Warn("failed to record build",
				zap.String("builder", b.BuilderName),
				zap.Int("number", b.Number),
				zap.Error(err))
		}
	}
}

func pendingBuildsHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		var pending []model.PendingBuild
		if err := json.Unmarshal(payload, &pending); err != nil {
			return fmt.Errorf("failed to decode pending payload: %w", err)
		}

		store.ReplacePendingBuilds(pending)
		return nil
	}
}

// queueHandler consumes the cross-builder build queue: unclaimed build
// requests, same shape as pending builds.
func queueHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		var queue []model.PendingBuild
		if err := json.Unmarshal(payload, &queue); err != nil {
			return fmt.Errorf("failed to decode buildqueue payload: %w", err)
		}

		store.ReplaceQueue(queue)
		return nil
	}
}

func slavesHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		slaves, err := model.FlattenSlaves(payload)
		if err != nil {
			return fmt.Errorf("failed to decode slaves payload: %w", err)
		}

		store.ReplaceSlaves(slaves)
		return nil
	}
}

func projectHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		var project model.Project
		if err := json.Unmarshal(payload, &project); err != nil {
			return fmt.Errorf("failed to decode project payload: %w", err)
		}

		store.ReplaceBuilders(project.Builders)
		return nil
	}
}

func globalHandler(store *state.Store) Handler {
	return func(payload json.RawMessage) error {
		var global model.GlobalStatus
		if err := json.Unmarshal(payload, &global); err != nil {
			return fmt.Errorf("failed to decode globalstatus payload: %w", err)
		}

		store.SetGlobal(global)
		return nil
	}
}
