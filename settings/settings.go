package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrSettings = errors.New("bad settings")

// Format selects the on-disk container layout.
type Format int

const (
	// GLB is a single chunked binary container.
	GLB Format = iota
	// GLTFEmbedded is a single JSON file with buffers embedded inline.
	GLTFEmbedded
	// GLTFSeparate is a JSON file with sibling binary and texture files.
	GLTFSeparate
	// VRM is the GLB container layout under the VRM profile extension.
	VRM
)

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"glb":      GLB,
		"embedded": GLTFEmbedded,
		"gltf":     GLTFSeparate,
		"separate": GLTFSeparate,
		"vrm":      VRM,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: unknown format %q", ErrSettings, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case GLB:
		return []byte("glb"), nil
	case GLTFEmbedded:
		return []byte("embedded"), nil
	case GLTFSeparate:
		return []byte("gltf"), nil
	case VRM:
		return []byte("vrm"), nil
	default:
		return nil, fmt.Errorf("%w: %d is not a format", ErrSettings, f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// Binary reports whether f is a single chunked binary container.
func (f Format) Binary() bool { return f == GLB || f == VRM }

// Ext returns the file extension for this format (including the dot).
func (f Format) Ext() string {
	switch f {
	case GLB:
		return ".glb"
	case VRM:
		return ".vrm"
	default:
		return ".gltf"
	}
}

// PublishExt returns the extension parameter used in viewer URLs.
func (f Format) PublishExt() string { return strings.TrimPrefix(f.Ext(), ".") }

// Draco holds compression toggles. The codec itself is opaque to the
// export pipeline.
type Draco struct {
	Enabled              bool `yaml:"enabled"`
	Level                int  `yaml:"level"`
	PositionQuantization int  `yaml:"positionQuantization"`
	NormalQuantization   int  `yaml:"normalQuantization"`
	TexCoordQuantization int  `yaml:"texCoordQuantization"`
	ColorQuantization    int  `yaml:"colorQuantization"`
	GenericQuantization  int  `yaml:"genericQuantization"`
}

// Settings is the export configuration record. It is resolved once by
// Normalize before any hook runs and is never re-derived mid-pipeline;
// downstream components receive value copies only.
type Settings struct {
	Format      Format `yaml:"format"`
	Filepath    string `yaml:"filepath"`
	BinFilename string `yaml:"binFilename"`

	EmbedBuffers bool   `yaml:"embedBuffers"`
	Copyright    string `yaml:"copyright"`

	TexCoords bool `yaml:"texCoords"`
	Normals   bool `yaml:"normals"`
	Tangents  bool `yaml:"tangents"`
	Colors    bool `yaml:"colors"`
	Cameras   bool `yaml:"cameras"`
	Extras    bool `yaml:"extras"`
	YUp       bool `yaml:"yUp"`

	Animations    bool `yaml:"animations"`
	FrameRange    bool `yaml:"frameRange"`
	FrameStep     int  `yaml:"frameStep"`
	ForceSampling bool `yaml:"forceSampling"`
	NLAStrips     bool `yaml:"nlaStrips"`
	DefBones      bool `yaml:"defBones"`
	CurrentFrame  bool `yaml:"currentFrame"`

	Skins               bool `yaml:"skins"`
	AllVertexInfluences bool `yaml:"allVertexInfluences"`
	Morph               bool `yaml:"morph"`
	MorphNormals        bool `yaml:"morphNormals"`
	MorphTangents       bool `yaml:"morphTangents"`

	Draco Draco `yaml:"draco"`
}

// Default returns the settings a fresh export dialog would carry.
func Default() Settings {
	return Settings{
		Format:        GLB,
		TexCoords:     true,
		Normals:       true,
		Colors:        true,
		YUp:           true,
		Animations:    true,
		FrameRange:    true,
		FrameStep:     1,
		ForceSampling: true,
		NLAStrips:     true,
		Skins:         true,
		Morph:         true,
		MorphNormals:  true,
		Draco: Draco{
			Level:                6,
			PositionQuantization: 14,
			NormalQuantization:   10,
			TexCoordQuantization: 12,
			ColorQuantization:    10,
			GenericQuantization:  12,
		},
	}
}

// Normalize resolves mutually dependent options into a consistent record.
// It never mutates its input; downstream components can rely on the result
// being free of inconsistent combinations:
//
//   - tangent export requires normal export
//   - frame-range, force-sampling, NLA and deform-bone options are inert
//     when animation export is off
//   - deform-bones-only requires force sampling
//   - all-vertex-influences requires skinning export
//   - shape-key normals require shape keys; shape-key tangents require
//     shape-key normals
func Normalize(s Settings) (Settings, error) {
	if s.Filepath == "" {
		return s, fmt.Errorf("%w: output path required", ErrSettings)
	}
	s.Filepath = forceExt(s.Filepath, s.Format.Ext())
	if s.BinFilename == "" {
		base := filepath.Base(s.Filepath)
		s.BinFilename = strings.TrimSuffix(base, filepath.Ext(base)) + ".bin"
	}
	if s.FrameStep < 1 {
		s.FrameStep = 1
	}

	s.Tangents = s.Tangents && s.Normals
	if !s.Animations {
		s.FrameRange = false
		s.ForceSampling = false
		s.NLAStrips = false
	}
	if !s.ForceSampling {
		s.DefBones = false
	}
	if !s.Skins {
		s.AllVertexInfluences = false
	}
	if !s.Morph {
		s.MorphNormals = false
	}
	if !s.Morph || !s.MorphNormals {
		s.MorphTangents = false
	}
	return s, nil
}

func forceExt(path, ext string) string {
	cur := strings.ToLower(filepath.Ext(path))
	switch cur {
	case ".glb", ".gltf", ".vrm":
		if cur == ext {
			return path
		}
		return strings.TrimSuffix(path, filepath.Ext(path)) + ext
	default:
		return path + ext
	}
}
