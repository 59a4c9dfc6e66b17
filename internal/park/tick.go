package park

// coastSpeed is the progress per tick of vehicles without their own engine.
const coastSpeed = 8

// Tick advances the simulation by one step. Powered vehicles accelerate up to
// their maximum speed; the rest coast at a fixed speed.
func (p *Park) Tick() {
	for _, r := range p.rides {
		for _, t := range r.trains {
			for _, id := range t.cars {
				c := p.cars[id]
				if c.Powered {
					c.speed += int32(c.PoweredAcceleration / 16)
					if limit := int32(c.PoweredMaxSpeed); c.speed > limit {
						c.speed = limit
					}
				} else {
					c.speed = coastSpeed
				}
				c.TrackProgress += c.speed
			}
		}
	}
}
