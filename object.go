// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendercore/bind"
	"github.com/gogpu/rendercore/camera"
	"github.com/gogpu/rendercore/frame"
	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/texture"
)

// ObjectOption configures an object created by AddText.
type ObjectOption func(*objectOptions)

type objectOptions struct {
	label     string
	transform camera.Transform
	tint      bind.ColorUniform
	visible   bool
}

// WithLabel names the object's GPU resources.
func WithLabel(label string) ObjectOption {
	return func(o *objectOptions) {
		if label != "" {
			o.label = label
		}
	}
}

// WithTransform sets the initial model transform. Default: identity.
func WithTransform(t camera.Transform) ObjectOption {
	return func(o *objectOptions) {
		o.transform = t
	}
}

// WithTint sets the initial tint. Default: white.
func WithTint(rgb mgl32.Vec3) ObjectOption {
	return func(o *objectOptions) {
		o.tint = bind.ColorUniform{Tint: rgb}
	}
}

// Hidden creates the object invisible.
func Hidden() ObjectOption {
	return func(o *objectOptions) {
		o.visible = false
	}
}

// Object is a textured quad with its own model, color and texture groups.
// Its methods must be called from the render goroutine.
type Object struct {
	r     *Renderer
	label string

	mesh    *mesh.Buffers
	model   *bind.Uniform[bind.ModelUniform]
	color   *bind.Uniform[bind.ColorUniform]
	tex     *texture.Texture
	texture *bind.TextureGroup

	visible bool
}

func newObject(r *Renderer, o objectOptions, img texture.RawImage, quad *mesh.Mesh[mesh.TextVertex]) (*Object, error) {
	if quad == nil {
		quad = mesh.Quad(1, 1)
	}
	obj := &Object{r: r, label: o.label, visible: o.visible}
	if err := obj.create(o, img, quad); err != nil {
		obj.destroy()
		return nil, fmt.Errorf("rendercore: object %s: %w", o.label, err)
	}
	return obj, nil
}

func (o *Object) create(opts objectOptions, img texture.RawImage, quad *mesh.Mesh[mesh.TextVertex]) error {
	var err error
	r := o.r
	if o.mesh, err = mesh.Upload(r.ctx, quad); err != nil {
		return err
	}
	if o.model, err = r.binds.NewModel(o.label, opts.transform.Uniform()); err != nil {
		return err
	}
	if o.color, err = r.binds.NewColor(o.label, opts.tint); err != nil {
		return err
	}
	if o.tex, err = texture.New2D(r.ctx, o.label, img); err != nil {
		return err
	}
	o.texture, err = r.binds.NewTexture(o.label, o.tex)
	return err
}

// Label returns the object's name.
func (o *Object) Label() string { return o.label }

// Visible reports whether RenderFrame draws the object.
func (o *Object) Visible() bool { return o.visible }

// SetVisible shows or hides the object.
func (o *Object) SetVisible(v bool) { o.visible = v }

// Model returns the last model matrix written.
func (o *Object) Model() mgl32.Mat4 { return o.model.Value().Model }

// SetModel writes the model matrix.
func (o *Object) SetModel(m mgl32.Mat4) error {
	return o.model.Update(bind.ModelUniform{Model: m})
}

// SetTransform writes t's matrix as the model matrix.
func (o *Object) SetTransform(t camera.Transform) error {
	return o.model.Update(t.Uniform())
}

// DumpModel reads the model matrix back from the GPU buffer. It needs a
// renderer created WithReadback.
func (o *Object) DumpModel() (mgl32.Mat4, error) {
	data, err := o.model.Dump()
	if err != nil {
		return mgl32.Mat4{}, err
	}
	var u bind.ModelUniform
	if err := u.UnmarshalBinary(data); err != nil {
		return mgl32.Mat4{}, err
	}
	return u.Model, nil
}

// Tint returns the last tint written.
func (o *Object) Tint() mgl32.Vec3 { return o.color.Value().Tint }

// SetTint writes the color group.
func (o *Object) SetTint(rgb mgl32.Vec3) error {
	return o.color.Update(bind.ColorUniform{Tint: rgb})
}

// Texture returns the bound texture.
func (o *Object) Texture() *texture.Texture { return o.tex }

// SetTexture uploads img and binds it through a new texture group. The
// previous texture and group are released once the GPU is done with them.
func (o *Object) SetTexture(img texture.RawImage) error {
	tex, err := texture.New2D(o.r.ctx, o.label, img)
	if err != nil {
		return err
	}
	group, err := o.texture.Rebind(tex)
	if err != nil {
		tex.Destroy()
		return err
	}
	oldGroup, oldTex := o.texture, o.tex
	o.texture, o.tex = group, tex
	o.r.retire(func() {
		oldGroup.Destroy()
		oldTex.Destroy()
	})
	return nil
}

func (o *Object) draw() frame.Draw {
	return frame.Draw{
		Label:    o.label,
		Pipeline: o.r.text,
		Groups:   []frame.Group{o.model, o.color, o.texture},
		Mesh:     o.mesh,
	}
}

// destroy releases the mesh and texture. Uniform and texture groups belong
// to the bind manager.
func (o *Object) destroy() {
	if o.mesh != nil {
		o.mesh.Destroy()
		o.mesh = nil
	}
	if o.tex != nil {
		o.tex.Destroy()
		o.tex = nil
	}
}
