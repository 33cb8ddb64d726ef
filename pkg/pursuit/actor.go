package pursuit

import (
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Tick is the message that advances a SimulationActor by one step.
func Tick() *emptypb.Empty { return &emptypb.Empty{} }

// SimulationActor hosts a Simulation behind a goakt mailbox, so a UI loop can
// drive it with Tick messages while the mailbox keeps every step sequential.
type SimulationActor struct {
	sim    *Simulation
	end    float64
	frames chan<- Frame
	latest Frame
	done   bool
}

// NewSimulationActor runs sim for duration more time units. Each step's frame
// is offered on frames without blocking; a busy consumer just misses it.
func NewSimulationActor(sim *Simulation, duration float64, frames chan<- Frame) *SimulationActor {
	a := &SimulationActor{
		sim:    sim,
		end:    sim.Time() + duration,
		frames: frames,
		done:   !(duration > 0),
	}
	sim.AddObserver(ObserverFunc(func(f Frame) { a.latest = f }))
	return a
}

func (a *SimulationActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("pursuit simulation actor starting: t=%.3f end=%.3f", a.sim.Time(), a.end)
	return nil
}

func (a *SimulationActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("pursuit simulation actor %s started", ctx.Self().Name())

	case *emptypb.Empty:
		if a.done {
			return
		}
		if err := a.sim.Step(); err != nil {
			ctx.Logger().Errorf("simulation step failed, halting: %v", err)
			a.done = true
			return
		}
		a.pushFrame()
		if a.sim.Time() >= a.end {
			ctx.Logger().Infof("simulation complete at t=%.3f after %d steps", a.sim.Time(), a.sim.Steps())
			a.done = true
		}

	default:
		ctx.Unhandled()
	}
}

func (a *SimulationActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("pursuit simulation actor stopped at t=%.3f", a.sim.Time())
	return nil
}

func (a *SimulationActor) pushFrame() {
	if a.frames == nil {
		return
	}
	select {
	case a.frames <- a.latest:
	default:
		// consumer busy, skip frame
	}
}
