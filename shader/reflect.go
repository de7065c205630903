// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader is the WGSL front end of rendercore: it parses, validates
// and reflects shader programs with naga so that pipelines can be checked
// against their bind group and vertex layouts before any GPU object exists.
package shader

import (
	"fmt"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/rendercore/internal/logging"
)

// Kind classifies a resource binding.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUniform
	KindStorage
	KindTexture
	KindStorageTexture
	KindSampler
)

func (k Kind) String() string {
	switch k {
	case KindUniform:
		return "uniform buffer"
	case KindStorage:
		return "storage buffer"
	case KindTexture:
		return "texture"
	case KindStorageTexture:
		return "storage texture"
	case KindSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

// Binding is a resource declared with @group/@binding.
type Binding struct {
	Group   uint32
	Binding uint32
	Name    string
	Kind    Kind

	// Size is the byte size of a buffer binding's type.
	Size uint32

	// Texture bindings.
	ViewDimension gputypes.TextureViewDimension
	SampleType    gputypes.TextureSampleType
	Multisampled  bool

	// Comparison is set for sampler_comparison.
	Comparison bool

	// Stages holds the stages whose entry point reaches the binding,
	// directly or through called functions. Zero for unused bindings.
	Stages gputypes.ShaderStages
}

// Used reports whether some entry point references the binding.
func (b Binding) Used() bool { return b.Stages != 0 }

// VertexInput is a @location input of the vertex entry point.
type VertexInput struct {
	Location uint32
	Name     string
	Format   gputypes.VertexFormat
}

// EntryPoint is a shader stage entry function.
type EntryPoint struct {
	Name  string
	Stage gputypes.ShaderStage
}

// Module is the reflected interface of a WGSL program.
type Module struct {
	Label        string
	Source       string
	Bindings     []Binding
	VertexInputs []VertexInput
	EntryPoints  []EntryPoint
	Overrides    []string

	ir *ir.Module
}

// Reflect compiles source to naga IR and extracts its resource bindings,
// vertex inputs, entry points and overrides. Any parse, lowering or
// validation failure is returned as a *CompileError.
func Reflect(label, source string) (*Module, error) {
	if source == "" {
		return nil, &CompileError{Label: label, Err: ErrEmptySource}
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, newCompileError(label, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, newCompileError(label, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, newCompileError(label, err)
	}
	if len(verrs) > 0 {
		return nil, newCompileError(label, &verrs[0])
	}

	m := &Module{Label: label, Source: source, ir: module}
	m.reflectBindings(m.globalStages())
	m.reflectEntryPoints()
	for i := range module.Overrides {
		m.Overrides = append(m.Overrides, module.Overrides[i].Name)
	}

	logging.Logger().Debug("shader: reflected",
		"label", label,
		"bindings", len(m.Bindings),
		"vertex_inputs", len(m.VertexInputs))
	return m, nil
}

// IR returns the lowered naga module.
func (m *Module) IR() *ir.Module { return m.ir }

// Binding looks up the resource at (group, binding).
func (m *Module) Binding(group, binding uint32) (Binding, bool) {
	for _, b := range m.Bindings {
		if b.Group == group && b.Binding == binding {
			return b, true
		}
	}
	return Binding{}, false
}

// GroupCount returns one past the highest group index an entry point uses,
// which is the minimum number of bind group layouts the pipeline layout
// needs.
func (m *Module) GroupCount() int {
	n := 0
	for _, b := range m.Bindings {
		if b.Used() && int(b.Group)+1 > n {
			n = int(b.Group) + 1
		}
	}
	return n
}

// EntryPoint returns the first entry point of the given stage.
func (m *Module) EntryPoint(stage gputypes.ShaderStage) (EntryPoint, bool) {
	for _, ep := range m.EntryPoints {
		if ep.Stage == stage {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// HasOverride reports whether the program declares the named override.
func (m *Module) HasOverride(name string) bool {
	for _, o := range m.Overrides {
		if o == name {
			return true
		}
	}
	return false
}

func (m *Module) reflectBindings(stages []gputypes.ShaderStages) {
	for i := range m.ir.GlobalVariables {
		gv := &m.ir.GlobalVariables[i]
		if gv.Binding == nil {
			continue
		}
		b := Binding{
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Name:    gv.Name,
			Stages:  stages[i],
		}
		switch gv.Space {
		case ir.SpaceUniform:
			b.Kind = KindUniform
			b.Size = ir.TypeSize(m.ir, gv.Type)
		case ir.SpaceStorage:
			b.Kind = KindStorage
			b.Size = ir.TypeSize(m.ir, gv.Type)
		case ir.SpaceHandle:
			describeHandle(&b, m.typeInner(gv.Type))
		}
		m.Bindings = append(m.Bindings, b)
	}
	sort.Slice(m.Bindings, func(i, j int) bool {
		if m.Bindings[i].Group != m.Bindings[j].Group {
			return m.Bindings[i].Group < m.Bindings[j].Group
		}
		return m.Bindings[i].Binding < m.Bindings[j].Binding
	})
}

// globalStages returns, per global variable, the stages whose entry point
// references it.
func (m *Module) globalStages() []gputypes.ShaderStages {
	stages := make([]gputypes.ShaderStages, len(m.ir.GlobalVariables))
	for i := range m.ir.EntryPoints {
		ep := &m.ir.EntryPoints[i]
		stage, ok := stageOf(ep.Stage)
		if !ok {
			continue
		}
		u := usage{module: m.ir, stage: stage, stages: stages, seen: make([]bool, len(m.ir.Functions))}
		u.function(&ep.Function)
	}
	return stages
}

// usage marks the globals one entry point reaches.
type usage struct {
	module *ir.Module
	stage  gputypes.ShaderStage
	stages []gputypes.ShaderStages
	seen   []bool
}

func (u *usage) function(f *ir.Function) {
	for _, e := range f.Expressions {
		if g, ok := e.Kind.(ir.ExprGlobalVariable); ok && int(g.Variable) < len(u.stages) {
			u.stages[g.Variable] |= u.stage
		}
	}
	u.block(f.Body)
}

func (u *usage) block(stmts []ir.Statement) {
	for _, stmt := range stmts {
		switch s := stmt.Kind.(type) {
		case ir.StmtCall:
			if int(s.Function) < len(u.seen) && !u.seen[s.Function] {
				u.seen[s.Function] = true
				u.function(&u.module.Functions[s.Function])
			}
		case ir.StmtBlock:
			u.block(s.Block)
		case ir.StmtIf:
			u.block(s.Accept)
			u.block(s.Reject)
		case ir.StmtSwitch:
			for _, c := range s.Cases {
				u.block(c.Body)
			}
		case ir.StmtLoop:
			u.block(s.Body)
			u.block(s.Continuing)
		}
	}
}

func describeHandle(b *Binding, inner ir.TypeInner) {
	switch t := inner.(type) {
	case ir.SamplerType:
		b.Kind = KindSampler
		b.Comparison = t.Comparison
	case ir.ImageType:
		b.Kind = KindTexture
		if t.Class == ir.ImageClassStorage {
			b.Kind = KindStorageTexture
		}
		b.ViewDimension = viewDimension(t.Dim, t.Arrayed)
		b.Multisampled = t.Multisampled
		switch {
		case t.Class == ir.ImageClassDepth:
			b.SampleType = gputypes.TextureSampleTypeDepth
		case t.SampledKind == ir.ScalarSint:
			b.SampleType = gputypes.TextureSampleTypeSint
		case t.SampledKind == ir.ScalarUint:
			b.SampleType = gputypes.TextureSampleTypeUint
		default:
			b.SampleType = gputypes.TextureSampleTypeFloat
		}
	}
}

func viewDimension(dim ir.ImageDimension, arrayed bool) gputypes.TextureViewDimension {
	switch dim {
	case ir.Dim1D:
		return gputypes.TextureViewDimension1D
	case ir.Dim2D:
		if arrayed {
			return gputypes.TextureViewDimension2DArray
		}
		return gputypes.TextureViewDimension2D
	case ir.Dim3D:
		return gputypes.TextureViewDimension3D
	case ir.DimCube:
		if arrayed {
			return gputypes.TextureViewDimensionCubeArray
		}
		return gputypes.TextureViewDimensionCube
	}
	return gputypes.TextureViewDimensionUndefined
}

func (m *Module) reflectEntryPoints() {
	for i := range m.ir.EntryPoints {
		ep := &m.ir.EntryPoints[i]
		stage, ok := stageOf(ep.Stage)
		if !ok {
			continue
		}
		m.EntryPoints = append(m.EntryPoints, EntryPoint{Name: ep.Name, Stage: stage})
		if stage != gputypes.ShaderStageVertex || len(m.VertexInputs) > 0 {
			continue
		}
		for _, arg := range ep.Function.Arguments {
			m.collectInputs(arg.Name, arg.Type, arg.Binding)
		}
	}
	sort.Slice(m.VertexInputs, func(i, j int) bool {
		return m.VertexInputs[i].Location < m.VertexInputs[j].Location
	})
}

// collectInputs records a location-bound argument, flattening struct
// arguments into their members.
func (m *Module) collectInputs(name string, th ir.TypeHandle, binding *ir.Binding) {
	if binding != nil {
		if loc, ok := (*binding).(ir.LocationBinding); ok {
			m.VertexInputs = append(m.VertexInputs, VertexInput{
				Location: loc.Location,
				Name:     name,
				Format:   vertexFormat(m.typeInner(th)),
			})
		}
		return
	}
	st, ok := m.typeInner(th).(ir.StructType)
	if !ok {
		return
	}
	for _, member := range st.Members {
		m.collectInputs(member.Name, member.Type, member.Binding)
	}
}

func (m *Module) typeInner(th ir.TypeHandle) ir.TypeInner {
	if int(th) >= len(m.ir.Types) {
		return nil
	}
	return m.ir.Types[th].Inner
}

func stageOf(s ir.ShaderStage) (gputypes.ShaderStage, bool) {
	switch s {
	case ir.StageVertex:
		return gputypes.ShaderStageVertex, true
	case ir.StageFragment:
		return gputypes.ShaderStageFragment, true
	case ir.StageCompute:
		return gputypes.ShaderStageCompute, true
	}
	return 0, false
}

var vertexFormats = map[ir.ScalarKind][4]gputypes.VertexFormat{
	ir.ScalarFloat: {gputypes.VertexFormatFloat32, gputypes.VertexFormatFloat32x2, gputypes.VertexFormatFloat32x3, gputypes.VertexFormatFloat32x4},
	ir.ScalarSint:  {gputypes.VertexFormatSint32, gputypes.VertexFormatSint32x2, gputypes.VertexFormatSint32x3, gputypes.VertexFormatSint32x4},
	ir.ScalarUint:  {gputypes.VertexFormatUint32, gputypes.VertexFormatUint32x2, gputypes.VertexFormatUint32x3, gputypes.VertexFormatUint32x4},
}

// vertexFormat maps a shader input type to the 32-bit vertex format that
// feeds it without conversion.
func vertexFormat(inner ir.TypeInner) gputypes.VertexFormat {
	var (
		kind ir.ScalarKind
		n    int
	)
	switch t := inner.(type) {
	case ir.ScalarType:
		kind, n = t.Kind, 1
	case ir.VectorType:
		kind, n = t.Scalar.Kind, int(t.Size)
	default:
		return gputypes.VertexFormatUndefined
	}
	row, ok := vertexFormats[kind]
	if !ok || n < 1 || n > 4 {
		return gputypes.VertexFormatUndefined
	}
	return row[n-1]
}

// String summarizes the module for logs and test failures.
func (m *Module) String() string {
	return fmt.Sprintf("%s: %d bindings, %d vertex inputs, %d entry points",
		m.Label, len(m.Bindings), len(m.VertexInputs), len(m.EntryPoints))
}
