// Package reference выдает номера визитов вида APT-XXXXXXXXXX на основе snowflake ID.
package reference

import (
	"strings"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/bwmarrin/snowflake"
	"github.com/jimlawless/whereami"
)

const Prefix = "APT-"

type Generator struct {
	node *snowflake.Node
}

// NewGenerator nodeID должен быть уникален среди запущенных экземпляров (0..1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Generator{node: node}, nil
}

func (g *Generator) NewReference() string {
	return Prefix + strings.ToUpper(g.node.Generate().Base36())
}
