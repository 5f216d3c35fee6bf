package order

import "errors"

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) MultiplyBy(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}
