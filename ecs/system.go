package ecs

// System is a unit of per-tick behavior. Implementations are plain structs;
// any Query or Singleton fields they declare are initialized by the Scheduler
// at registration time, and Query caches are refreshed before each Execute.
// State kept on the struct persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
