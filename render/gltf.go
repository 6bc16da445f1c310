package render

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/soypat/door/material"
	"github.com/soypat/door/scene"
)

// Document converts the primitives under root into a glTF document. Each
// primitive becomes one mesh node with its world translation baked into
// the positions. Materials shared between primitives are written once.
func Document(root *scene.Node) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "door"
	mats := make(map[*material.Material]uint32)
	err := root.Walk(func(p scene.Primitive) error {
		if p.Solid.TriangleCount() == 0 {
			return nil
		}
		b, err := p.Solid.Buffers()
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		off := to3F32(p.World)
		for i := range b.Positions {
			b.Positions[i][0] += off[0]
			b.Positions[i][1] += off[1]
			b.Positions[i][2] += off[2]
		}
		prim := &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION:   uint32(modeler.WritePosition(doc, b.Positions)),
				gltf.NORMAL:     uint32(modeler.WriteNormal(doc, b.Normals)),
				gltf.TEXCOORD_0: uint32(modeler.WriteTextureCoord(doc, b.UVs)),
			},
			Indices: gltf.Index(uint32(modeler.WriteIndices(doc, b.Indices))),
		}
		if p.Material != nil {
			idx, ok := mats[p.Material]
			if !ok {
				doc.Materials = append(doc.Materials, gltfMaterial(p.Material))
				idx = uint32(len(doc.Materials) - 1)
				mats[p.Material] = idx
			}
			prim.Material = gltf.Index(idx)
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: p.Name, Primitives: []*gltf.Primitive{prim}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: p.Name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// WriteGLB writes the scene under root as a binary glTF file.
func WriteGLB(w io.Writer, root *scene.Node) error {
	doc, err := Document(root)
	if err != nil {
		return err
	}
	if len(doc.Meshes) == 0 {
		return ErrEmptyModel
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	return enc.Encode(doc)
}

func gltfMaterial(m *material.Material) *gltf.Material {
	c := m.Color
	alpha := float32(m.Alpha())
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, alpha},
		MetallicFactor:  gltf.Float(float32(m.Metalness)),
		RoughnessFactor: gltf.Float(float32(m.Roughness)),
	}
	out := &gltf.Material{Name: m.Name, PBRMetallicRoughness: pbr}
	if m.Transparent() {
		out.AlphaMode = gltf.AlphaBlend
		out.DoubleSided = true
	} else {
		out.AlphaMode = gltf.AlphaOpaque
	}
	extras := map[string]any{}
	if m.Unlit {
		extras["unlit"] = true
	}
	if m.Texture != nil {
		// The image itself is left to the viewer's texture cache.
		extras["texture"] = m.Texture.Name
		extras["repeat"] = [2]float64{m.Repeat.X, m.Repeat.Y}
	}
	if len(extras) > 0 {
		out.Extras = extras
	}
	return out
}
