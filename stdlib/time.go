package stdlib

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const dateLayout = "2006-01-02 15:04:05"

func (rt *Runtime) loadTime(in *zen.Interpreter) (zen.Value, error) {
	return object("time", funcs{
		"now": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewFloat(float64(time.Now().UnixNano()) / 1e9), nil
		},
		"sleep": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewNull(), rt.sleep(in, time.Duration(zen.Arg(args, 0).Float()*float64(time.Second)))
		},
		"date": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(time.Now().Format(dateLayout)), nil
		},
		"timestamp": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewInt(time.Now().Unix()), nil
		},
		"schedule": rt.schedule,
		"cancel": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if rt.scheduler == nil {
				return zen.NewBool(false), nil
			}
			id := cron.EntryID(zen.Arg(args, 0).Int())
			if !rt.scheduler.Entry(id).Valid() {
				return zen.NewBool(false), nil
			}
			rt.scheduler.Remove(id)
			return zen.NewBool(true), nil
		},
	}, nil), nil
}

func (rt *Runtime) sleep(in *zen.Interpreter, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	ctx := in.Context()
	var err error
	rt.blocking(func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-timer.C:
		}
	})
	return err
}

// schedule runs fn on a cron spec such as "*/5 * * * *" or "@every 2s" and
// returns the job id for cancel.
func (rt *Runtime) schedule(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
	spec := zen.Arg(args, 0).String()
	fn := zen.Arg(args, 1)
	if !fn.IsCallable() {
		return zen.NewNull(), zen.NewError(zen.ErrType, "schedule expects a function, got %s", fn.TypeName())
	}
	if rt.scheduler == nil {
		rt.scheduler = cron.New()
		rt.scheduler.Start()
	}
	id, err := rt.scheduler.AddFunc(spec, func() {
		if _, err := rt.invoke(in, fn); err != nil {
			rt.log.Error().Str("spec", spec).Err(err).Msg("scheduled job failed")
		}
	})
	if err != nil {
		return zen.NewNull(), zen.Errorf("invalid schedule %q: %v", spec, err)
	}
	rt.log.Debug().Str("spec", spec).Int("id", int(id)).Msg("job scheduled")
	return zen.NewInt(int64(id)), nil
}
