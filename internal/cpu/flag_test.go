package cpu

import "testing"

func TestFlag(t *testing.T) {
	c := newTestCPU()
	t.Run("clear", func(t *testing.T) {
		for i := FlagCarry; i <= FlagZero; i++ {
			c.clearFlag(i)
			if c.isFlagSet(i) {
				t.Errorf("expected flag %d to be unset, got set", i)
			}
		}
	})
	t.Run("set", func(t *testing.T) {
		for i := FlagCarry; i <= FlagZero; i++ {
			c.setFlag(i)
			if !c.isFlagSet(i) {
				t.Errorf("expected flag %d to be set, got unset", i)
			}
		}
	})
	t.Run("isFlagSet", func(t *testing.T) {
		for i := FlagCarry; i <= FlagZero; i++ {
			c.clearFlag(i)
			if c.isFlagSet(i) {
				t.Errorf("expected flag %d to be unset, got set", i)
			}
			c.setFlag(i)
			if !c.isFlagSet(i) {
				t.Errorf("expected flag %d to be set, got unset", i)
			}
		}
	})
}
