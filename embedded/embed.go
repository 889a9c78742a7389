// Package embedded provides the species tables compiled into the pgm binary.
// They are used when no game_data path is configured.
package embedded

import _ "embed"

// GameData contains the default species names, candy costs and evolutions.
//
//go:embed gamedata.yaml
var GameData []byte
