package guard

import "testing"

func TestRegistryAddRemoveGlobalEnter(t *testing.T) {
	r := newRegistry()
	h1 := r.addGlobalEnter(func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })
	h2 := r.addGlobalEnter(func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })

	if !r.hasEnterGuards("anything") {
		t.Fatalf("expected hasEnterGuards true with global guards registered")
	}

	r.removeGlobalEnter(h1)
	if len(r.globalEnter) != 1 || r.globalEnter[0].handle != h2 {
		t.Fatalf("removeGlobalEnter did not leave exactly h2")
	}

	r.removeGlobalEnter(h2)
	if r.hasEnterGuards("anything") {
		t.Fatalf("expected hasEnterGuards false after removing all global guards")
	}
}

func TestRegistryRouteEnterIsolatedByRoute(t *testing.T) {
	r := newRegistry()
	r.addRouteEnter("protected", func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })

	if !r.hasEnterGuards("protected") {
		t.Fatalf("expected hasEnterGuards true for protected")
	}
	if r.hasEnterGuards("home") {
		t.Fatalf("expected hasEnterGuards false for an unrelated route")
	}
}

func TestRegistrySnapshotIsDefensiveCopy(t *testing.T) {
	r := newRegistry()
	r.addGlobalEnter(func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })

	snap := r.snapshotGlobalEnter()
	r.addGlobalEnter(func(ctx *GuardContext) EnterOutcome { return Outcome(Block) })

	if len(snap) != 1 {
		t.Fatalf("snapshot taken before the second Add must stay at length 1, got %d", len(snap))
	}
}

func TestRegistryClear(t *testing.T) {
	r := newRegistry()
	r.addGlobalEnter(func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })
	r.addRouteEnter("protected", func(ctx *GuardContext) EnterOutcome { return Outcome(Allow) })
	r.addLeave("home", func(ctx *GuardContext) LeaveOutcome { return LeaveSync(LeaveAllow) })

	r.clear()

	if r.hasEnterGuards("protected") || r.hasLeaveGuards("home") {
		t.Fatalf("clear() must empty every guard container")
	}
}
