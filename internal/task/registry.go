// SPDX-License-Identifier: MPL-2.0

package task

import "lamrun/internal/config"

// Task names, used for registry lookup and CLI wiring.
const (
	NameSetup      = "setup"
	NameInvoke     = "invoke"
	NamePack       = "pack"
	NameGetConfig  = "aws-getconfig"
	NameAWSInvoke  = "aws-invoke"
	NameUpdateCode = "aws-updatecode"
)

// DefaultRegistry returns a registry with all built-in tasks registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NameSetup, func(cfg *config.Config) (Task, error) { return NewSetupTask(cfg) })
	r.Register(NameInvoke, func(cfg *config.Config) (Task, error) { return NewInvokeTask(cfg) })
	r.Register(NamePack, func(cfg *config.Config) (Task, error) { return NewPackTask(cfg) })
	r.Register(NameGetConfig, func(cfg *config.Config) (Task, error) { return NewGetConfigTask(cfg) })
	r.Register(NameAWSInvoke, func(cfg *config.Config) (Task, error) { return NewRemoteInvokeTask(cfg) })
	r.Register(NameUpdateCode, func(cfg *config.Config) (Task, error) { return NewUpdateCodeTask(cfg) })
	return r
}
