package mediatag

import (
	"github.com/simonhull/mediatag/internal/types"
)

// Chapter is an alias to types.Chapter.
type Chapter = types.Chapter
