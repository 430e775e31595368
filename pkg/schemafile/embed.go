package schemafile

import (
	"embed"
	"io/fs"
)

//go:embed screens/*
var embeddedScreens embed.FS

// EmbeddedFS returns the bundled screen definitions. Pass it to LoadFS to get
// the default sign-in, sign-up and employee screens.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedScreens, "screens")
	if err != nil {
		panic(err)
	}
	return sub
}
