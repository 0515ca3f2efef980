package config

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ErrInvalidConfig marks every configuration error.
var ErrInvalidConfig = stderrors.New("config: invalid configuration")

// InvalidArgumentError names the offending field and value.
type InvalidArgumentError struct {
	Name    string // yaml field path, e.g. "learning_rate" or "view.pad_x"
	Value   any
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("config: invalid value %v for %q: %s", e.Value, e.Name, e.Message)
}

// Is makes errors.Is(err, ErrInvalidConfig) match.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidConfig
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field and the cross-field constraints.
//
// The first violation is returned as an *InvalidArgumentError wrapped with
// a stack trace.
func (c Config) Validate() error {
	if err := c.checkFinite(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.WithStack(fromFieldError(fieldErrs[0]))
		}
		return errors.Wrap(err, "config: validation")
	}

	if c.InitialTheta != nil {
		theta := *c.InitialTheta
		if math.IsNaN(theta) || math.Abs(theta) > c.Range {
			return errors.WithStack(&InvalidArgumentError{
				Name:    "initial_theta",
				Value:   theta,
				Message: fmt.Sprintf("outside allowed range [-%g, %g]", c.Range, c.Range),
			})
		}
	}

	if err := c.View.checkStable(); err != nil {
		return err
	}

	if c.TotalFrames() < 1 {
		return errors.WithStack(&InvalidArgumentError{
			Name:    "duration_s",
			Value:   c.DurationS,
			Message: fmt.Sprintf("yields no frames at %d fps", c.FPS),
		})
	}

	return nil
}

// checkFinite rejects infinite and NaN values, which pass the range tags.
func (c Config) checkFinite() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"duration_s", c.DurationS},
		{"range", c.Range},
		{"learning_rate", c.LearningRate},
		{"momentum", c.Momentum},
		{"samples_per_unit", c.SamplesPerUnit},
		{"tangent_half_width", c.TangentHalfWidth},
		{"view.margin_fraction", c.View.MarginFraction},
		{"view.pad_x", c.View.PadX},
		{"view.pad_below", c.View.PadBelow},
		{"view.pad_above", c.View.PadAbove},
		{"view.min_width", c.View.MinWidth},
		{"view.min_height", c.View.MinHeight},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.WithStack(&InvalidArgumentError{
				Name:    f.name,
				Value:   f.value,
				Message: "must be finite",
			})
		}
	}
	return nil
}

// checkStable requires a recentred point to land outside the recentre
// margins, otherwise the window would move on every frame.
func (v View) checkStable() error {
	m := v.MarginFraction
	if m == 0 {
		return nil
	}

	halfW, below, above := v.Policy().Extents()
	height := below + above
	sides := []struct {
		name   string
		value  float64
		room   float64
		extent float64
	}{
		{"view.pad_x", v.PadX, halfW, 2 * halfW},
		{"view.pad_below", v.PadBelow, below, height},
		{"view.pad_above", v.PadAbove, above, height},
	}
	for _, s := range sides {
		if s.room <= m*s.extent {
			return errors.WithStack(&InvalidArgumentError{
				Name:  s.name,
				Value: s.value,
				Message: fmt.Sprintf("leaves the recentred point inside the %g margin (%.4g of %.4g)",
					m, s.room, s.extent),
			})
		}
	}
	return nil
}

// fromFieldError turns a validator failure into an InvalidArgumentError.
func fromFieldError(fe validator.FieldError) *InvalidArgumentError {
	name := fe.Namespace()
	if _, rest, ok := strings.Cut(name, "."); ok {
		name = rest // drop the struct type name
	}
	return &InvalidArgumentError{
		Name:    name,
		Value:   fe.Value(),
		Message: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "required":
		return "is required"
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(fe.Param(), " ", ", ") + "]"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
