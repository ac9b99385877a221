package app

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/catalog"
	"github.com/felixgeelhaar/groundwork/internal/domain/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/phase"
	"github.com/felixgeelhaar/groundwork/internal/domain/step"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/account"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/provider/autoupdate"
	"github.com/felixgeelhaar/groundwork/internal/provider/fail2ban"
	"github.com/felixgeelhaar/groundwork/internal/provider/firewall"
	gitprovider "github.com/felixgeelhaar/groundwork/internal/provider/git"
	"github.com/felixgeelhaar/groundwork/internal/provider/nvim"
	"github.com/felixgeelhaar/groundwork/internal/provider/runtime"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/provider/sshd"
	"github.com/felixgeelhaar/groundwork/internal/provider/tmux"
	"github.com/felixgeelhaar/groundwork/internal/provider/workspace"
)

// BuildCatalog assembles the single phase-tagged step catalog.
//
// Declared order is execution order. The only ordering that matters is
// where a step's action changes what a later check observes: packages
// before the services they provide, the account before its key copy, the
// key copy before SSH hardening.
func BuildCatalog(cfg *config.Config, fs ports.FileSystem, runner ports.CommandRunner) *catalog.Catalog {
	c := catalog.New()

	// Root phase: system hardening.
	ufwPkg := step.MustNewStepID("apt:package:ufw")
	f2bPkg := step.MustNewStepID("apt:package:fail2ban")
	upgPkg := step.MustNewStepID("apt:package:unattended-upgrades")
	for _, pkg := range cfg.Packages() {
		c.MustAdd(apt.NewPackageStep(pkg, runner), phase.Root)
	}

	rules := firewall.NewRulesStep(cfg.SSHPort, cfg.AllowPorts, runner, ufwPkg)
	c.MustAdd(rules, phase.Root)
	c.MustAdd(firewall.NewEnableStep(runner, rules.ID()), phase.Root)

	jail := fail2ban.NewJailStep(cfg.SSHPort, fs, runner, f2bPkg)
	c.MustAdd(jail, phase.Root)
	c.MustAdd(fail2ban.NewServiceStep(runner, f2bPkg, jail.ID()), phase.Root)

	auCfg := autoupdate.NewConfigStep(fs, upgPkg)
	c.MustAdd(auCfg, phase.Root)
	c.MustAdd(autoupdate.NewServiceStep(runner, upgPkg, auCfg.ID()), phase.Root)

	user := account.NewUserStep(cfg.Username, runner)
	c.MustAdd(user, phase.Root)
	c.MustAdd(account.NewSudoersStep(cfg.Username, fs, user.ID()), phase.Root)
	keys := account.NewAuthorizedKeysStep(cfg.Username, cfg.Home(), fs, runner, user.ID())
	c.MustAdd(keys, phase.Root)
	c.MustAdd(sshd.NewHardenStep(cfg.Username, cfg.Home(), cfg.SSHPort, fs, runner, keys.ID()), phase.Root)

	// User phase: developer environment.
	mise := runtime.NewInstallStep(fs, runner)
	c.MustAdd(mise, phase.User)
	miseCfg := runtime.NewConfigStep(cfg.Tools, fs, mise.ID())
	c.MustAdd(miseCfg, phase.User)
	c.MustAdd(runtime.NewToolsStep(runner, mise.ID(), miseCfg.ID()), phase.User)

	c.MustAdd(shell.NewProfileStep(cfg.Env, cfg.Aliases, fs, mise.ID()), phase.User)
	c.MustAdd(gitprovider.NewConfigStep(cfg.Git.Name, cfg.Git.Email, cfg.Git.DefaultBranch, fs), phase.User)
	c.MustAdd(tmux.NewConfigStep(fs), phase.User)

	nv := nvim.NewInstallStep(fs, runner)
	c.MustAdd(nv, phase.User)
	c.MustAdd(nvim.NewConfigStep(fs, nv.ID()), phase.User)
	c.MustAdd(workspace.NewDirStep(cfg.DefaultDir, fs), phase.User)

	return c
}
