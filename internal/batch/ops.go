package batch

import (
	"context"
	"fmt"
	"strings"

	"cc3-texbaker/internal/host"
	"cc3-texbaker/internal/state"
)

// Operation is a mode string naming a bake operation.
type Operation string

const (
	OpBake    Operation = "BAKE"
	OpAdd     Operation = "ADD"
	OpRemove  Operation = "REMOVE"
	OpSource  Operation = "SOURCE"
	OpBaked   Operation = "BAKED"
	OpJpegify Operation = "JPEGIFY"
)

var operations = []Operation{OpBake, OpAdd, OpRemove, OpSource, OpBaked, OpJpegify}

// ParseOperation converts a mode string to an Operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToUpper(s))
	for _, o := range operations {
		if o == op {
			return op, nil
		}
	}
	return "", fmt.Errorf("batch: unknown operation %q", s)
}

// Run performs op on the selected objects. ADD and REMOVE act on mat, the
// active material. Only BAKE returns results.
func (d *Driver) Run(ctx context.Context, op Operation, mat host.Material) ([]Result, error) {
	d.log.Info("running operation", "operation", op)
	switch op {
	case OpBake:
		return d.Bake(ctx, d.Scene.Selected())

	case OpAdd:
		if mat == nil {
			return nil, fmt.Errorf("batch: %s: no active material", op)
		}
		d.State.AddSettings(mat, d.Settings.Sizes)

	case OpRemove:
		if mat == nil {
			return nil, fmt.Errorf("batch: %s: no active material", op)
		}
		d.State.RemoveSettings(mat)

	case OpSource:
		d.Revert(d.Scene.Selected())

	case OpBaked:
		d.Restore(d.Scene.Selected())

	case OpJpegify:
		return nil, d.ConvertImages()

	default:
		return nil, fmt.Errorf("batch: unknown operation %q", op)
	}
	return nil, nil
}

// Revert puts the source materials back into the slots of the mesh objects
// that hold baked materials.
func (d *Driver) Revert(objects []host.Object) {
	for _, obj := range host.Meshes(objects) {
		for i, mat := range obj.Materials() {
			if e := d.State.Lookup(mat); e != nil && state.Same(e.Baked, mat) {
				obj.SetMaterial(i, e.Source)
			}
		}
	}
}

// Restore puts the baked materials back into the slots of the mesh objects
// that hold source materials.
func (d *Driver) Restore(objects []host.Object) {
	for _, obj := range host.Meshes(objects) {
		for i, mat := range obj.Materials() {
			if e := d.State.Lookup(mat); e != nil && state.Same(e.Source, mat) && e.Baked != nil {
				obj.SetMaterial(i, e.Baked)
			}
		}
	}
}
