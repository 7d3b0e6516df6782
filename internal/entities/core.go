package entities

import "github.com/KirkDiggler/rpg-toolkit/core"

// Compile-time checks that stored records can be handed to rpg-toolkit
var (
	_ core.Entity = (*Monster)(nil)
	_ core.Entity = (*Character)(nil)
	_ core.Entity = (*SimulationRun)(nil)
	_ core.Entity = ScratchTable{}
)
