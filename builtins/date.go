package builtins

import (
	"math"
	"time"

	"github.com/cwbudde/go-ecma/interp"
	"github.com/cwbudde/go-ecma/terms"
	"github.com/cwbudde/go-ecma/values"
)

// installDate wires the Date constructor variants, Date.now/Date.parse,
// and the prototype getters/setters/toString family from spec.md §4.6.
// Time is stored as obj.DateMillis (milliseconds since epoch, UTC), the
// one ClassDate-specific field values.Object already reserves; every
// getter/setter converts through time.Time only for the duration of a
// single call.
func installDate(i *interp.Interp, global *values.Object) {
	ctorVal, ctorObj := newConstructor(i, "Date", i.Store.DateProto, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		millis, err := dateMillisFromArgs(s, args)
		if err != nil {
			return values.Value{}, err
		}
		v := s.New(values.ClassDate, s.DateProto)
		s.Object(v).DateMillis = millis
		return v, nil
	})
	global.SetOwn("Date", ctorVal)

	nativeFunction(i, ctorObj, "now", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Num(float64(time.Now().UnixMilli())), nil
	})
	nativeFunction(i, ctorObj, "parse", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		str, err := terms.ToString(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		return values.Num(parseDateString(str)), nil
	})
	nativeFunction(i, ctorObj, "UTC", 7, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Num(dateMillisFromFields(s, args)), nil
	})

	proto := i.Store.ObjectByID(i.Store.DateProto)

	getter := func(name string, fn func(t time.Time) float64) {
		nativeFunction(i, proto, name, 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			obj := s.Object(this)
			if math.IsNaN(obj.DateMillis) {
				return values.Num(math.NaN()), nil
			}
			return values.Num(fn(millisToTime(obj.DateMillis))), nil
		})
	}
	getter("getFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	getter("getUTCFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	getter("getMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	getter("getUTCMonth", func(t time.Time) float64 { return float64(t.Month() - 1) })
	getter("getDate", func(t time.Time) float64 { return float64(t.Day()) })
	getter("getUTCDate", func(t time.Time) float64 { return float64(t.Day()) })
	getter("getDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	getter("getUTCDay", func(t time.Time) float64 { return float64(t.Weekday()) })
	getter("getHours", func(t time.Time) float64 { return float64(t.Hour()) })
	getter("getUTCHours", func(t time.Time) float64 { return float64(t.Hour()) })
	getter("getMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	getter("getUTCMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	getter("getSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	getter("getUTCSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	getter("getMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) })
	getter("getUTCMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) })
	getter("getTimezoneOffset", func(t time.Time) float64 { return 0 })

	nativeFunction(i, proto, "getTime", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Num(s.Object(this).DateMillis), nil
	})
	nativeFunction(i, proto, "valueOf", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		return values.Num(s.Object(this).DateMillis), nil
	})
	nativeFunction(i, proto, "setTime", 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		n, err := terms.ToNumber(s, arg(args, 0))
		if err != nil {
			return values.Value{}, err
		}
		s.Object(this).DateMillis = n
		return values.Num(n), nil
	})

	setter := func(name string, apply func(t time.Time, n int) time.Time) {
		nativeFunction(i, proto, name, 1, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
			obj := s.Object(this)
			n, err := terms.ToNumber(s, arg(args, 0))
			if err != nil {
				return values.Value{}, err
			}
			base := millisToTime(obj.DateMillis)
			if math.IsNaN(obj.DateMillis) {
				base = time.Unix(0, 0).UTC()
			}
			result := apply(base, int(n))
			obj.DateMillis = float64(result.UnixMilli())
			return values.Num(obj.DateMillis), nil
		})
	}
	setter("setFullYear", func(t time.Time, n int) time.Time {
		return time.Date(n, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setter("setMonth", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), time.Month(n+1), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setter("setDate", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), n, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setter("setHours", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), n, t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	})
	setter("setMinutes", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), n, t.Second(), t.Nanosecond(), time.UTC)
	})
	setter("setSeconds", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), n, t.Nanosecond(), time.UTC)
	})
	setter("setMilliseconds", func(t time.Time, n int) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), n*1e6, time.UTC)
	})

	nativeFunction(i, proto, "toISOString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		if math.IsNaN(obj.DateMillis) {
			return values.Value{}, errRangeErr("Invalid time value")
		}
		return values.Str(millisToTime(obj.DateMillis).Format("2006-01-02T15:04:05.000Z")), nil
	})
	nativeFunction(i, proto, "toUTCString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		if math.IsNaN(obj.DateMillis) {
			return values.Str("Invalid Date"), nil
		}
		return values.Str(millisToTime(obj.DateMillis).Format("Mon, 02 Jan 2006 15:04:05 GMT")), nil
	})
	nativeFunction(i, proto, "toString", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		if math.IsNaN(obj.DateMillis) {
			return values.Str("Invalid Date"), nil
		}
		return values.Str(millisToTime(obj.DateMillis).Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")), nil
	})
	nativeFunction(i, proto, "toJSON", 0, func(s *values.Store, this values.Value, args []values.Value) (values.Value, error) {
		obj := s.Object(this)
		if math.IsNaN(obj.DateMillis) {
			return values.NullValue, nil
		}
		return values.Str(millisToTime(obj.DateMillis).Format("2006-01-02T15:04:05.000Z")), nil
	})
}

func millisToTime(millis float64) time.Time {
	return time.UnixMilli(int64(millis)).UTC()
}

// dateMillisFromArgs implements `new Date(...)`'s overload set: no args
// (now), a single number (epoch millis) or string (parsed), or 2-7
// numeric year/month/day/... fields (spec.md §4.6's "constructor
// variants").
func dateMillisFromArgs(s *values.Store, args []values.Value) (float64, error) {
	switch len(args) {
	case 0:
		return float64(time.Now().UnixMilli()), nil
	case 1:
		if args[0].Kind() == values.String {
			return parseDateString(args[0].StringVal()), nil
		}
		n, err := terms.ToNumber(s, args[0])
		return n, err
	default:
		return dateMillisFromFields(s, args), nil
	}
}

func dateMillisFromFields(s *values.Store, args []values.Value) float64 {
	get := func(idx int, def int) int {
		if idx >= len(args) {
			return def
		}
		n, err := terms.ToNumber(s, args[idx])
		if err != nil || math.IsNaN(n) {
			return def
		}
		return int(n)
	}
	year := get(0, 1970)
	if year >= 0 && year <= 99 {
		year += 1900
	}
	month := get(1, 0)
	day := get(2, 1)
	hour := get(3, 0)
	min := get(4, 0)
	sec := get(5, 0)
	ms := get(6, 0)
	t := time.Date(year, time.Month(month+1), day, hour, min, sec, ms*1e6, time.UTC)
	return float64(t.UnixMilli())
}

// parseDateString supports the ISO-8601 forms Date.parse/the single-string
// constructor realistically see in script fixtures; anything else yields
// NaN rather than a best-effort guess, matching real engines' refusal to
// parse arbitrary formats reliably.
func parseDateString(str string) float64 {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC1123,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, str); err == nil {
			return float64(t.UnixMilli())
		}
	}
	return math.NaN()
}
