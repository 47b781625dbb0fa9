package ini

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/udisondev/rtsloco/internal/constants"
)

// ParseFunc converts the values of one body line and stores them into dst.
// dst is the pointer returned by the field's Target.
type ParseFunc func(values []string, dst any) error

// Unit is the data-file unit of a real field. Values are stored per logic
// frame, so the conversion depends on the frame rate of the block.
type Unit int32

const (
	UnitNone Unit = iota
	// UnitPerSecond converts x/second to x/frame.
	UnitPerSecond
	// UnitDegreesPerSecond converts degrees/second to radians/frame.
	UnitDegreesPerSecond
	// UnitPerSecondSquared converts x/second² to x/frame².
	UnitPerSecondSquared
	// UnitMilliseconds converts milliseconds to frames.
	UnitMilliseconds
)

// Convert scales v from the data-file unit to its per-frame value at frameRate.
func (u Unit) Convert(v float64, frameRate int) float64 {
	fps := float64(frameRate)
	switch u {
	case UnitPerSecond:
		return v / fps
	case UnitDegreesPerSecond:
		return v * math.Pi / 180 / fps
	case UnitPerSecondSquared:
		return v / (fps * fps)
	case UnitMilliseconds:
		return v * fps / 1000
	default:
		return v
	}
}

// Field binds one body key to a parser and a storage target inside T.
// A non-zero Unit rescales the parsed real after Parse stores it.
type Field[T any] struct {
	Token  string
	Parse  ParseFunc
	Target func(obj *T) any
	Unit   Unit
}

// FieldTable is the ordered set of fields a block may contain.
type FieldTable[T any] []Field[T]

// lookup returns the field bound to token.
func (t FieldTable[T]) lookup(token string) (Field[T], bool) {
	for _, f := range t {
		if f.Token == token {
			return f, true
		}
	}
	return Field[T]{}, false
}

// InitFrom applies every body line of b onto obj.
func InitFrom[T any](b *Block, obj *T, table FieldTable[T]) error {
	rate := b.FrameRate
	if rate <= 0 {
		rate = constants.LogicFramesPerSecond
	}
	for _, line := range b.Lines {
		f, ok := table.lookup(line.Key)
		if !ok {
			return b.wrapErr(line.Num, line.Key, ErrUnknownField)
		}
		dst := f.Target(obj)
		if err := f.Parse(line.Values, dst); err != nil {
			return b.wrapErr(line.Num, line.Key, err)
		}
		if f.Unit == UnitNone {
			continue
		}
		p, ok := dst.(*float64)
		if !ok {
			return b.wrapErr(line.Num, line.Key, fmt.Errorf("unit target is %T: %w", dst, ErrBadValue))
		}
		*p = f.Unit.Convert(*p, rate)
	}
	return nil
}

func single(values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("no value: %w", ErrBadValue)
	}
	return values[0], nil
}

func scanReal(values []string) (float64, error) {
	s, err := single(values)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a real: %w", s, ErrBadValue)
	}
	return v, nil
}

func storeReal(dst any, v float64) error {
	p, ok := dst.(*float64)
	if !ok {
		return fmt.Errorf("real target is %T: %w", dst, ErrBadValue)
	}
	*p = v
	return nil
}

// ParseReal stores a plain real.
func ParseReal(values []string, dst any) error {
	v, err := scanReal(values)
	if err != nil {
		return err
	}
	return storeReal(dst, v)
}

// ParseAngleReal stores degrees as radians.
func ParseAngleReal(values []string, dst any) error {
	v, err := scanReal(values)
	if err != nil {
		return err
	}
	return storeReal(dst, v*math.Pi/180)
}

// ParseInt stores an int32.
func ParseInt(values []string, dst any) error {
	s, err := single(values)
	if err != nil {
		return err
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("%q is not an int: %w", s, ErrBadValue)
	}
	p, ok := dst.(*int32)
	if !ok {
		return fmt.Errorf("int target is %T: %w", dst, ErrBadValue)
	}
	*p = int32(v)
	return nil
}

// ParseBool stores yes/no, true/false or 1/0.
func ParseBool(values []string, dst any) error {
	s, err := single(values)
	if err != nil {
		return err
	}
	var v bool
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		v = true
	case "no", "false", "0":
		v = false
	default:
		return fmt.Errorf("%q is not a bool: %w", s, ErrBadValue)
	}
	p, ok := dst.(*bool)
	if !ok {
		return fmt.Errorf("bool target is %T: %w", dst, ErrBadValue)
	}
	*p = v
	return nil
}

// ParseIndexList returns a parser storing the position of the value in names.
func ParseIndexList[E ~int32](names []string) ParseFunc {
	return func(values []string, dst any) error {
		s, err := single(values)
		if err != nil {
			return err
		}
		p, ok := dst.(*E)
		if !ok {
			return fmt.Errorf("index target is %T: %w", dst, ErrBadValue)
		}
		for i, name := range names {
			if strings.EqualFold(name, s) {
				*p = E(i)
				return nil
			}
		}
		return fmt.Errorf("%q not in %v: %w", s, names, ErrBadValue)
	}
}

// ParseBitstring32 returns a parser building a bitmask from names, bit i = names[i].
// NONE clears, ALL sets every bit; +NAME / -NAME adjust the current value.
func ParseBitstring32[E ~uint32](names []string) ParseFunc {
	return func(values []string, dst any) error {
		p, ok := dst.(*E)
		if !ok {
			return fmt.Errorf("bitstring target is %T: %w", dst, ErrBadValue)
		}
		if len(values) == 0 {
			return fmt.Errorf("no value: %w", ErrBadValue)
		}

		var mask E
		adjust := strings.HasPrefix(values[0], "+") || strings.HasPrefix(values[0], "-")
		if adjust {
			mask = *p
		}

		for _, v := range values {
			switch strings.ToUpper(v) {
			case "NONE":
				mask = 0
				continue
			case "ALL":
				mask = E(1<<uint(len(names))) - 1
				continue
			}

			op := byte(0)
			if v[0] == '+' || v[0] == '-' {
				op = v[0]
				v = v[1:]
			}
			bit := -1
			for i, name := range names {
				if strings.EqualFold(name, v) {
					bit = i
					break
				}
			}
			if bit < 0 {
				return fmt.Errorf("%q not in %v: %w", v, names, ErrBadValue)
			}
			if op == '-' {
				mask &^= E(1) << uint(bit)
			} else {
				mask |= E(1) << uint(bit)
			}
		}
		*p = mask
		return nil
	}
}
