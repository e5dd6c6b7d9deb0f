package runtime

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/jward/circle/internal/geometry"
	"github.com/jward/circle/internal/store"
)

// makeRecordFn creates "record", which computes an area and persists it
// with source "script".
//
// record(r) → float
func makeRecordFn(rec store.Recorder, session string) *object.Builtin {
	return object.NewBuiltin("record", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("record", 1, len(args))
		}
		r, errObj := numberArg("record", args[0])
		if errObj != nil {
			return errObj
		}

		c := &store.Computation{
			Session: session,
			Radius:  r,
			Area:    geometry.Area(r),
			Source:  store.SourceScript,
		}
		if _, err := rec.InsertComputation(c); err != nil {
			return object.Errorf("record: %v", err)
		}
		return object.NewFloat(c.Area)
	})
}

// makeHistoryFn creates "history", returning recorded computations newest
// first. With no argument every row is returned.
//
// history(limit?) → [{id, session, radius, area, source}, ...]
func makeHistoryFn(rec store.Recorder) *object.Builtin {
	return object.NewBuiltin("history", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) > 1 {
			return object.NewArgsError("history", 1, len(args))
		}
		limit := 0
		if len(args) == 1 {
			n, ok := args[0].(*object.Int)
			if !ok {
				return object.Errorf("history: limit must be an int, got %s", args[0].Type())
			}
			limit = int(n.Value())
		}

		rows, err := rec.Computations(limit)
		if err != nil {
			return object.Errorf("history: %v", err)
		}

		items := make([]object.Object, 0, len(rows))
		for _, c := range rows {
			items = append(items, object.NewMap(map[string]object.Object{
				"id":      object.NewInt(c.ID),
				"session": object.NewString(c.Session),
				"radius":  object.NewFloat(c.Radius),
				"area":    object.NewFloat(c.Area),
				"source":  object.NewString(c.Source),
			}))
		}
		return object.NewList(items)
	})
}
