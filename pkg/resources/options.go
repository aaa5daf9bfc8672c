package resources

import (
	"fmt"
	"regexp"

	"github.com/strata3d/strata/pkg/props"
)

// ViewTypeLine and ViewTypeTube are the canonical mesh view type tags
const (
	ViewTypeLine = "line"
	ViewTypeTube = "tube"
)

var mesh1DOptionsSchema = props.NewSchema("Mesh1DOptions",
	&props.FieldSpec{
		Name: "view_type",
		Kind: props.KindChoice,
		Choices: map[string][]string{
			ViewTypeLine: {"lines", "thin", "1d"},
			ViewTypeTube: {"tubes", "extruded line", "extruded lines", "borehole", "boreholes"},
		},
		Default: ViewTypeLine,
	},
)

// Mesh1DOptions holds display options for a 1D line mesh
type Mesh1DOptions struct {
	obj *props.Object
}

// NewMesh1DOptions creates mesh options with the default line view
func NewMesh1DOptions() *Mesh1DOptions {
	return &Mesh1DOptions{obj: props.NewObject(mesh1DOptionsSchema)}
}

// SetViewType sets how the lines are displayed: thin lines or extruded
// tubes. Synonyms such as "borehole" normalize to the canonical tags.
func (o *Mesh1DOptions) SetViewType(v string) error {
	return o.obj.Set("view_type", v)
}

// ViewType returns the canonical view type tag
func (o *Mesh1DOptions) ViewType() string {
	return o.obj.GetString("view_type")
}

// Validate runs the options schema validation
func (o *Mesh1DOptions) Validate() error {
	return o.obj.Validate()
}

// MarkSynced clears the options' dirty state after a confirmed sync
func (o *Mesh1DOptions) MarkSynced() {
	o.obj.MarkSynced()
}

// HasChanges returns true if any option differs from its last-synced value
func (o *Mesh1DOptions) HasChanges() bool {
	return o.obj.HasChanges()
}

// Meta returns the options in wire form
func (o *Mesh1DOptions) Meta() WireMeshMeta {
	return WireMeshMeta{ViewType: o.ViewType()}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var lineOptionsSchema = props.NewSchema("LineOptions",
	&props.FieldSpec{Name: "color", Kind: props.KindString},
	&props.FieldSpec{Name: "opacity", Kind: props.KindScalar},
).WithValidators(validateLineOptions)

// LineOptions holds display options for a line resource: solid color and
// opacity
type LineOptions struct {
	obj *props.Object
}

// NewLineOptions creates empty line display options
func NewLineOptions() *LineOptions {
	return &LineOptions{obj: props.NewObject(lineOptionsSchema)}
}

// SetColor sets the display color as a "#rrggbb" hex string
func (o *LineOptions) SetColor(hex string) error {
	return o.obj.Set("color", hex)
}

// Color returns the display color, or "" if unset
func (o *LineOptions) Color() string {
	return o.obj.GetString("color")
}

// SetOpacity sets the display opacity in [0, 1]
func (o *LineOptions) SetOpacity(v float64) error {
	return o.obj.Set("opacity", v)
}

// Opacity returns the display opacity and whether it is set
func (o *LineOptions) Opacity() (float64, bool) {
	return o.obj.GetScalar("opacity")
}

// Validate runs the options schema validation
func (o *LineOptions) Validate() error {
	return o.obj.Validate()
}

// MarkSynced clears the options' dirty state after a confirmed sync
func (o *LineOptions) MarkSynced() {
	o.obj.MarkSynced()
}

// HasChanges returns true if any option differs from its last-synced value
func (o *LineOptions) HasChanges() bool {
	return o.obj.HasChanges()
}

// Meta returns the options in wire form
func (o *LineOptions) Meta() WireLineMeta {
	meta := WireLineMeta{Color: o.Color()}
	if opacity, ok := o.Opacity(); ok {
		meta.Opacity = &opacity
	}
	return meta
}

func (o *LineOptions) applyMeta(meta WireLineMeta) error {
	if meta.Color != "" {
		if err := o.SetColor(meta.Color); err != nil {
			return err
		}
	}
	if meta.Opacity != nil {
		if err := o.SetOpacity(*meta.Opacity); err != nil {
			return err
		}
	}
	return nil
}

func validateLineOptions(o *props.Object) error {
	if color := o.GetString("color"); color != "" && !hexColor.MatchString(color) {
		return fmt.Errorf("color: %q is not a #rrggbb hex string", color)
	}
	if opacity, ok := o.GetScalar("opacity"); ok && (opacity < 0 || opacity > 1) {
		return fmt.Errorf("opacity: %v is outside [0, 1]", opacity)
	}
	return nil
}
