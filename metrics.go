package strata

import (
	"time"
)

type ResolveHook func(service string, depth int, duration time.Duration, err error)

type DisposeHook func(depth int, duration time.Duration, err error)

type ScopeHook func(depth int)
