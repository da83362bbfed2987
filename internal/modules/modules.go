// Package modules wires every standard module's Install function into a
// Host's builtin registry in one place, the single spot a new built-in
// module needs to be added to become require()-able.
package modules

import (
	"github.com/rizqme/hype/internal/host"
	"github.com/rizqme/hype/internal/modules/cryptomod"
	"github.com/rizqme/hype/internal/modules/eventsmod"
	"github.com/rizqme/hype/internal/modules/fs"
	"github.com/rizqme/hype/internal/modules/httpmod"
	"github.com/rizqme/hype/internal/modules/jsonmod"
	"github.com/rizqme/hype/internal/modules/osmod"
	"github.com/rizqme/hype/internal/modules/pathmod"
	"github.com/rizqme/hype/internal/modules/processmod"
	"github.com/rizqme/hype/internal/modules/querystringmod"
	"github.com/rizqme/hype/internal/modules/stringmod"
	"github.com/rizqme/hype/internal/modules/tablemod"
	"github.com/rizqme/hype/internal/modules/timemod"
	"github.com/rizqme/hype/internal/modules/urlmod"
	"github.com/rizqme/hype/internal/modules/utilmod"
)

// Permissions carries the resolved allow-lists (manifest hype.permissions
// merged with any CLI overrides) that gate the fs and http built-ins.
type Permissions struct {
	AllowNet   []string
	AllowRead  []string
	AllowWrite []string
}

// InstallAll registers every standard built-in module against h's builtin
// registry, then refreshes the resolver's view of available builtin names.
// fs and http are installed with perms enforced; every other module has no
// permission surface and installs unconditionally.
func InstallAll(h *host.Host, perms Permissions) {
	fs.InstallWithPolicy(h.Builtins, fs.Policy{AllowRead: perms.AllowRead, AllowWrite: perms.AllowWrite})
	httpmod.InstallWithPolicy(h.Builtins, httpmod.Policy{AllowNet: perms.AllowNet})
	pathmod.Install(h.Builtins)
	jsonmod.Install(h.Builtins)
	cryptomod.Install(h.Builtins)
	timemod.Install(h.Builtins)
	urlmod.Install(h.Builtins)
	querystringmod.Install(h.Builtins)
	osmod.Install(h.Builtins)
	processmod.Install(h.Builtins)
	stringmod.Install(h.Builtins)
	eventsmod.Install(h.Builtins)
	utilmod.Install(h.Builtins)
	tablemod.Install(h.Builtins)
	h.RefreshBuiltins()
}
