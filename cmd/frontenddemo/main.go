// Command frontenddemo applies one local change (three operations) to a
// fresh state tree and logs the outcome with slog. It
// exists to give the library a runnable example, not as a production
// entry point.
package main

import (
	"log/slog"
	"os"

	"github.com/gocrdt/automerge-frontend/mutation"
	"github.com/gocrdt/automerge-frontend/path"
	"github.com/gocrdt/automerge-frontend/protocol"
	"github.com/gocrdt/automerge-frontend/statetree"
	"github.com/gocrdt/automerge-frontend/value"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	tree := statetree.NewStateTree()
	actor := protocol.ActorID("demo-actor-1")

	tracker := mutation.NewTracker(tree, actor, 0)
	err := tracker.Apply(mutation.LocalChange{Ops: []mutation.LocalOperation{
		mutation.SetOperation(path.Root(), value.NewMap(map[string]value.Value{
			"title": value.NewPrimitive(protocol.StrValue("shopping list")),
		})),
		mutation.SetOperation(path.Root().Key("count"), value.NewCounter(0)),
		mutation.IncrementOperation(path.Root().Key("count"), 3),
	}})
	if err != nil {
		logger.Error("local change failed", "error", err)
		os.Exit(1)
	}

	logger.Info("session complete",
		"max_op", tracker.MaxOp(),
		"ops_emitted", len(tracker.Ops()),
		"view", tree.Value(),
	)
}
