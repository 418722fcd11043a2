package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Hooks   bool
	Encode  bool
	Publish bool
	Sink    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Hooks = boolEnv("GLTF_DEBUG_HOOKS")
	d.Encode = boolEnv("GLTF_DEBUG_ENCODE")
	d.Publish = boolEnv("GLTF_DEBUG_PUBLISH")
	d.Sink = boolEnv("GLTF_DEBUG_SINK")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Hooks() bool {
	return d.Hooks
}
func Encode() bool {
	return d.Encode
}
func Publish() bool {
	return d.Publish
}
func Sink() bool {
	return d.Sink
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
