// Package export writes tessellated shapes to 3MF, a zip-packaged mesh
// interchange format. The exporter consumes the flat colored triangle list
// produced by the tessellation layer; it knows nothing about the shapes the
// triangles came from.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"

	go3mf "github.com/hpinc/go3mf"

	"github.com/keelcad/keel/pkg/topology"
)

// ThreeMF writes the triangles as a single-object 3MF package. Vertices are
// deduplicated by exact position; per-triangle colors become base materials
// referenced from each triangle.
func ThreeMF(w io.Writer, triangles []topology.ColoredTriangle) error {
	if len(triangles) == 0 {
		return fmt.Errorf("export: no triangles to write")
	}

	materials := &go3mf.BaseMaterials{ID: 1}
	materialIndex := map[topology.Color]uint32{}

	mesh := new(go3mf.Mesh)
	vertexIndex := map[go3mf.Point3D]uint32{}

	addVertex := func(p go3mf.Point3D) uint32 {
		if i, ok := vertexIndex[p]; ok {
			return i
		}
		i := uint32(len(mesh.Vertices.Vertex))
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, p)
		vertexIndex[p] = i
		return i
	}

	for _, ct := range triangles {
		ci, ok := materialIndex[ct.Color]
		if !ok {
			ci = uint32(len(materials.Materials))
			materials.Materials = append(materials.Materials, go3mf.Base{
				Name: fmt.Sprintf("color-%d", ci),
				Color: color.RGBA{
					R: ct.Color[0], G: ct.Color[1], B: ct.Color[2], A: ct.Color[3],
				},
			})
			materialIndex[ct.Color] = ci
		}

		a, b, c := ct.Triangle.Points()
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1:  addVertex(go3mf.Point3D{float32(a.X), float32(a.Y), float32(a.Z)}),
			V2:  addVertex(go3mf.Point3D{float32(b.X), float32(b.Y), float32(b.Z)}),
			V3:  addVertex(go3mf.Point3D{float32(c.X), float32(c.Y), float32(c.Z)}),
			PID: materials.ID,
			P1:  ci,
			P2:  ci,
			P3:  ci,
		})
	}

	object := &go3mf.Object{
		ID:   2,
		Mesh: mesh,
		PID:  materials.ID,
	}

	m := &go3mf.Model{Units: go3mf.UnitMillimeter}
	m.Resources.Assets = append(m.Resources.Assets, materials)
	m.Resources.Objects = append(m.Resources.Objects, object)
	m.Build.Items = append(m.Build.Items, &go3mf.Item{ObjectID: object.ID})

	if err := go3mf.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("export: encoding 3mf: %w", err)
	}
	return nil
}

// ThreeMFFile writes the triangles to a 3MF file at path.
func ThreeMFFile(path string, triangles []topology.ColoredTriangle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := ThreeMF(f, triangles); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
