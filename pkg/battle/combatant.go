package battle

// MaxHealth is the starting and maximum health of both combatants.
const MaxHealth = 3

// Combatant tracks one side's health.
type Combatant struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
}

// NewCombatant returns a combatant at full health.
func NewCombatant(maxHP int) Combatant {
	return Combatant{HP: maxHP, MaxHP: maxHP}
}

// TakeDamage reduces HP by n. HP cannot go below 0.
func (c *Combatant) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	c.HP -= n
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal increases HP by n. HP cannot exceed MaxHP.
func (c *Combatant) Heal(n int) {
	if n <= 0 {
		return
	}
	c.HP += n
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// Reset restores full health.
func (c *Combatant) Reset() {
	c.HP = c.MaxHP
}

// IsDefeated returns true if HP is 0.
func (c *Combatant) IsDefeated() bool {
	return c.HP <= 0
}
