package runtime

import (
	"context"
	"log"

	"github.com/risor-io/risor/object"

	"github.com/jward/circle/internal/geometry"
	"github.com/jward/circle/internal/sections"
)

// numberArg converts an int or float argument to float64. Any other type is
// a type error, mirroring what arithmetic on a non-number would raise.
func numberArg(fn string, obj object.Object) (float64, *object.Error) {
	switch v := obj.(type) {
	case *object.Float:
		return v.Value(), nil
	case *object.Int:
		return float64(v.Value()), nil
	default:
		return 0, object.Errorf("type error: %s() expected a number (%s given)", fn, obj.Type())
	}
}

// makeAreaFn creates the "area" host function.
//
// area(r) → float
func makeAreaFn() *object.Builtin {
	return object.NewBuiltin("area", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("area", 1, len(args))
		}
		r, errObj := numberArg("area", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewFloat(geometry.Area(r))
	})
}

// makeCircumferenceFn creates the "circumference" host function.
//
// circumference(r) → float
func makeCircumferenceFn() *object.Builtin {
	return object.NewBuiltin("circumference", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("circumference", 1, len(args))
		}
		r, errObj := numberArg("circumference", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewFloat(geometry.Circumference(r))
	})
}

// makeFormatAreaFn creates "format_area", which renders a number the way
// the CLI prints areas.
//
// format_area(v) → string
func makeFormatAreaFn() *object.Builtin {
	return object.NewBuiltin("format_area", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("format_area", 1, len(args))
		}
		v, errObj := numberArg("format_area", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewString(geometry.FormatArea(v))
	})
}

// makeSectionsFn creates the "sections" host function.
//
// sections(path) → [{title, header_line, content_start, fold_end}, ...]
func makeSectionsFn(opts sections.Options) *object.Builtin {
	return object.NewBuiltin("sections", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("sections", 1, len(args))
		}
		path, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("sections: path must be a string, got %s", args[0].Type())
		}

		doc, err := sections.ParseFile(ctx, path.Value(), opts)
		if err != nil {
			return object.Errorf("sections: %v", err)
		}

		items := make([]object.Object, 0, len(doc.Sections))
		for _, s := range doc.Sections {
			items = append(items, object.NewMap(map[string]object.Object{
				"title":         object.NewString(s.Title),
				"header_line":   object.NewInt(int64(s.HeaderLine)),
				"content_start": object.NewInt(int64(s.ContentStart)),
				"fold_end":      object.NewInt(int64(s.FoldEnd)),
			}))
		}
		return object.NewList(items)
	})
}

// logObject provides log.Info/Warn/Error methods for Risor scripts.
type logObject struct {
	logger *log.Logger
}

func (l *logObject) Info(msg string) {
	l.logger.Printf("[script] INFO: %s", msg)
}

func (l *logObject) Warn(msg string) {
	l.logger.Printf("[script] WARN: %s", msg)
}

func (l *logObject) Error(msg string) {
	l.logger.Printf("[script] ERROR: %s", msg)
}
