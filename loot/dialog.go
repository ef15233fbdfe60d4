package loot

import (
	_ "embed"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/en.po
var enPo []byte

var dialogs = newCatalog(enPo)

func newCatalog(data []byte) *gotext.Po {
	po := gotext.NewPo()
	po.Parse(data)
	return po
}

// Dialog returns the reward text shown when item is obtained from a chest.
func Dialog(item Item) string {
	return dialogs.Get("REWARD_" + string(item))
}
