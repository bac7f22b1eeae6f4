package shadepbr

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// multiSeparator joins member identifiers and names.
const multiSeparator = "_"

// MultiMaterialID returns the group identity: member UUIDs sorted ascending and joined by "_".
// The result does not depend on member order.
func MultiMaterialID(g Graph, members []NodeRef) (string, error) {
	infos, err := sortedMembers(g, members)
	if err != nil {
		return "", err
	}

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.UUID)
	}

	return strings.Join(ids, multiSeparator), nil
}

// MultiMaterialName returns the group name: member names ordered by UUID and joined by "_".
func MultiMaterialName(g Graph, members []NodeRef) (string, error) {
	infos, err := sortedMembers(g, members)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}

	return strings.Join(names, multiSeparator), nil
}

// sortedMembers describes members ordered by UUID.
func sortedMembers(g Graph, members []NodeRef) ([]NodeInfo, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: multi-material has no members", ErrStructuralMismatch)
	}

	infos := make([]NodeInfo, 0, len(members))
	for _, ref := range members {
		info, err := g.Describe(ref)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	slices.SortStableFunc(infos, func(a, b NodeInfo) int {
		return cmp.Compare(a.UUID, b.UUID)
	})

	return infos, nil
}

// ExportMultiMaterial exports a multi-material group and its members.
//
// Members already exported in the session are not translated again. The group is
// appended once per identity; member failures are joined into the returned error and
// do not stop the remaining members.
func (e *Exporter) ExportMultiMaterial(members []NodeRef) (*MultiMaterial, error) {
	id, err := MultiMaterialID(e.g, members)
	if err != nil {
		return nil, err
	}
	name, err := MultiMaterialName(e.g, members)
	if err != nil {
		return nil, err
	}

	e.rep.Message(fmt.Sprintf("Exporting multi-material %s", name), rankMaterial)

	mm := &MultiMaterial{ID: id, Name: name, Materials: make([]string, 0, len(members))}
	var errs []error
	for _, ref := range members {
		info, err := e.g.Describe(ref)
		if err != nil {
			return nil, err
		}
		mm.Materials = append(mm.Materials, info.UUID)

		if err := e.ExportMaterial(ref); err != nil {
			errs = append(errs, err)
		}
	}

	if existing, ok := e.scene.AddMultiMaterial(mm); !ok {
		return existing, errors.Join(errs...)
	}

	return mm, errors.Join(errs...)
}
