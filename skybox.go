// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendercore/bind"
	"github.com/gogpu/rendercore/camera"
	"github.com/gogpu/rendercore/frame"
	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/texture"
)

// skyboxScale keeps the cube inside the default far plane.
const skyboxScale = 100

type skybox struct {
	r       *Renderer
	mesh    *mesh.Buffers
	model   *bind.Uniform[bind.ModelUniform]
	color   *bind.Uniform[bind.ColorUniform]
	tex     *texture.Texture
	texture *bind.TextureGroup
}

func skyboxTransform(c camera.Camera) camera.Transform {
	return camera.Transform{
		Translation: c.Eye,
		Scale:       mgl32.Vec3{skyboxScale, skyboxScale, skyboxScale},
	}
}

// SetSkybox uploads six faces, in mesh.SkyboxFaces order, as the layers of
// the skybox texture. Replacing a skybox keeps its mesh and rebinds the
// new texture.
func (r *Renderer) SetSkybox(faces []texture.RawImage) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if len(faces) != len(mesh.SkyboxFaces) {
		return fmt.Errorf("rendercore: skybox needs %d faces, have %d", len(mesh.SkyboxFaces), len(faces))
	}
	tex, err := texture.NewArray(r.ctx, "skybox", faces)
	if err != nil {
		return err
	}

	if r.sky != nil {
		group, err := r.sky.texture.Rebind(tex)
		if err != nil {
			tex.Destroy()
			return err
		}
		oldGroup, oldTex := r.sky.texture, r.sky.tex
		r.sky.texture, r.sky.tex = group, tex
		r.retire(func() {
			oldGroup.Destroy()
			oldTex.Destroy()
		})
		logging.Logger().Debug("rendercore: skybox replaced")
		return nil
	}

	sky, err := r.newSkybox(tex)
	if err != nil {
		tex.Destroy()
		return err
	}
	r.sky = sky
	logging.Logger().Debug("rendercore: skybox set", "layers", tex.Layers())
	return nil
}

// newSkybox takes ownership of tex only on success.
func (r *Renderer) newSkybox(tex *texture.Texture) (*skybox, error) {
	buffers, err := mesh.Upload(r.ctx, mesh.SkyboxCube())
	if err != nil {
		return nil, err
	}
	s := &skybox{r: r, mesh: buffers, tex: tex}
	if err := s.bind(); err != nil {
		buffers.Destroy()
		return nil, err
	}
	return s, nil
}

// bind creates the skybox groups. Groups created before a failure are
// released with the bind manager.
func (s *skybox) bind() error {
	var err error
	if s.model, err = s.r.binds.NewModel("skybox", skyboxTransform(s.r.camera).Uniform()); err != nil {
		return err
	}
	if s.color, err = s.r.binds.NewColor("skybox", bind.White); err != nil {
		return err
	}
	s.texture, err = s.r.binds.NewTexture("skybox", s.tex)
	return err
}

// SkyboxTexture returns the current skybox texture.
func (r *Renderer) SkyboxTexture() (*texture.Texture, error) {
	if r.sky == nil {
		return nil, ErrNoSkybox
	}
	return r.sky.tex, nil
}

// follow centers the cube on the camera.
func (s *skybox) follow(c camera.Camera) error {
	return s.model.Update(skyboxTransform(c).Uniform())
}

func (s *skybox) draw() frame.Draw {
	return frame.Draw{
		Label:    "skybox",
		Pipeline: s.r.skybox,
		Groups:   []frame.Group{s.model, s.color, s.texture},
		Mesh:     s.mesh,
	}
}

func (s *skybox) destroy() {
	s.mesh.Destroy()
	s.tex.Destroy()
}
