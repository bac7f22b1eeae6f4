package shadepbr

import (
	"errors"
	"fmt"
	"sync"
)

// Reporter ranks used by the exporter.
const (
	rankMaterial = 1
	rankStep     = 2
	rankTexture  = 3
)

// Exporter is one export session translating materials of a Graph into a Scene.
//
// The session owns the set of already exported material UUIDs, so a material shared by
// several multi-material groups is translated once.
type Exporter struct {
	g        Graph
	scene    *Scene
	rep      Reporter
	exported map[string]struct{}
	resolver PathResolver
	opt      ExportOptions
	mu       sync.Mutex
}

// NewExporter creates an export session. A nil scene starts an empty one and a nil
// reporter logs through Logger.
func NewExporter(g Graph, scene *Scene, opt *ExportOptions, rep Reporter) *Exporter {
	eopt := opt.normalize()
	if scene == nil {
		scene = NewScene(eopt.OutputPath)
	}
	if eopt.OutputPath == "" {
		eopt.OutputPath = scene.OutputPath
	}
	if scene.OutputPath == "" {
		scene.OutputPath = eopt.OutputPath
	}
	if rep == nil {
		rep = NewLogReporter(nil)
	}

	return &Exporter{
		g:        g,
		scene:    scene,
		rep:      rep,
		exported: make(map[string]struct{}),
		resolver: PathResolver{Root: eopt.SourceRoot},
		opt:      eopt,
	}
}

// Scene returns the session output scene.
func (e *Exporter) Scene() *Scene {
	return e.scene
}

// ExportMaterial translates one material node and appends the record to the scene.
//
// A node exported earlier in the session is skipped. Unsupported shader types are
// reported as a warning and return an error wrapping ErrUnsupportedShader; a missing
// required attribute returns an error wrapping ErrStructuralMismatch. Texture failures
// never fail the material.
func (e *Exporter) ExportMaterial(ref NodeRef) error {
	info, err := e.g.Describe(ref)
	if err != nil {
		e.rep.Error(err.Error(), rankMaterial)
		return err
	}
	if !e.claim(info.UUID) {
		return nil
	}

	e.rep.Message(fmt.Sprintf("Exporting material dependency node %s", info.Name), rankMaterial)
	if err := e.translate(ref, info); err != nil {
		if !errors.Is(err, ErrUnsupportedShader) {
			e.rep.Error(err.Error(), rankStep)
		}
		return err
	}

	return nil
}

// ExportMaterials exports every node, continuing past failures.
// The returned error joins every per-material error.
func (e *Exporter) ExportMaterials(refs []NodeRef) error {
	var errs []error
	for _, ref := range refs {
		if err := e.ExportMaterial(ref); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsExported reports whether the material UUID was exported in this session.
func (e *Exporter) IsExported(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.exported[id]
	return ok
}

// claim marks id as exported and reports whether it was not exported before.
func (e *Exporter) claim(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.exported[id]; ok {
		return false
	}
	e.exported[id] = struct{}{}

	return true
}

// texturesEnabled reports whether texture resolution runs.
func (e *Exporter) texturesEnabled() bool {
	return !e.opt.DisableTextureExport
}
