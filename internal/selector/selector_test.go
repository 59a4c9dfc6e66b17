package selector_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rve/internal/park"
	"github.com/san-kum/rve/internal/selector"
	"github.com/san-kum/rve/internal/world"
)

// newPark builds three rides: a coaster with two trains of three and two
// vehicles, a kart track with one single-car train and an empty ride.
func newPark() *park.Park {
	p := park.New("selector", nil)
	p.AddRideType(world.RideType{ID: 0, Name: "Wooden Coaster", VariantCount: 2})
	p.AddRideType(world.RideType{ID: 1, Name: "Go Karts", VariantCount: 1, Powered: true})

	coaster := p.AddRide(1, "Coaster")
	car := park.CarSpec{RideType: 0, Seats: 4, Mass: 100}
	_, err := p.AddTrain(coaster, car, car, car)
	Expect(err).NotTo(HaveOccurred())
	_, err = p.AddTrain(coaster, car, car)
	Expect(err).NotTo(HaveOccurred())

	karts := p.AddRide(2, "Karts")
	_, err = p.AddTrain(karts, park.CarSpec{RideType: 1, Seats: 1})
	Expect(err).NotTo(HaveOccurred())

	p.AddRide(3, "Empty")
	return p
}

func index(get func() (int, bool)) int {
	idx, ok := get()
	if !ok {
		return -1
	}
	return idx
}

var _ = Describe("Selector", func() {
	var (
		p   *park.Park
		sel *selector.Selector
	)

	BeforeEach(func() {
		p = newPark()
		sel = selector.New(p)
		sel.ReloadRideList()
	})

	It("starts without a selection", func() {
		Expect(sel.RidesInPark().Get()).To(HaveLen(3))
		Expect(index(sel.RideIndex)).To(Equal(-1))
		Expect(sel.Vehicle().Get()).To(BeNil())
	})

	Describe("SelectRide", func() {
		It("selects the ride and cascades to the first train and vehicle", func() {
			sel.SelectRide(0)

			Expect(index(sel.RideIndex)).To(Equal(0))
			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
			Expect(sel.Ride().Get().Name).To(Equal("Coaster"))
			Expect(sel.TrainsOnRide().Get()).To(HaveLen(2))
			Expect(sel.VehiclesOnTrain().Get()).To(HaveLen(3))
			Expect(sel.Vehicle().Get().EntityID()).To(Equal(p.Vehicles(1, 0)[0].EntityID()))
		})

		It("honours explicit train and vehicle indices", func() {
			sel.SelectRide(0, 1, 1)

			Expect(index(sel.TrainIndex)).To(Equal(1))
			Expect(index(sel.VehicleIndex)).To(Equal(1))
			Expect(sel.Vehicle().Get().EntityID()).To(Equal(p.Vehicles(1, 1)[1].EntityID()))
		})

		It("falls back to the first train and vehicle for stale indices", func() {
			sel.SelectRide(1, 4, 9)

			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
		})

		DescribeTable("ignores out of range ride indices",
			func(rideIdx int) {
				sel.SelectRide(1)
				before := sel.Vehicle().Get()

				sel.SelectRide(rideIdx)

				Expect(index(sel.RideIndex)).To(Equal(1))
				Expect(index(sel.TrainIndex)).To(Equal(0))
				Expect(index(sel.VehicleIndex)).To(Equal(0))
				Expect(sel.Vehicle().Get()).To(BeIdenticalTo(before))
			},
			Entry("negative", -1),
			Entry("length", 3),
			Entry("far beyond", 42),
		)

		It("clears train and vehicle when the ride has no trains", func() {
			sel.SelectRide(0)
			sel.SelectRide(2)

			Expect(index(sel.RideIndex)).To(Equal(2))
			Expect(index(sel.TrainIndex)).To(Equal(-1))
			Expect(index(sel.VehicleIndex)).To(Equal(-1))
			Expect(sel.TrainsOnRide().Get()).To(BeEmpty())
			Expect(sel.VehiclesOnTrain().Get()).To(BeEmpty())
			Expect(sel.Train().Get()).To(BeNil())
			Expect(sel.Vehicle().Get()).To(BeNil())
		})
	})

	Describe("SelectTrain", func() {
		It("is a no-op without a ride", func() {
			sel.SelectTrain(0)
			Expect(index(sel.TrainIndex)).To(Equal(-1))
			Expect(sel.Train().Get()).To(BeNil())
		})

		It("selects the train and its first vehicle", func() {
			sel.SelectRide(0, 0, 2)
			sel.SelectTrain(1)

			Expect(index(sel.TrainIndex)).To(Equal(1))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
			Expect(sel.VehiclesOnTrain().Get()).To(HaveLen(2))
		})

		It("resolves out of range indices to the first train", func() {
			sel.SelectRide(0, 1)
			sel.SelectTrain(7)
			Expect(index(sel.TrainIndex)).To(Equal(0))

			sel.SelectTrain(-3)
			Expect(index(sel.TrainIndex)).To(Equal(0))
		})
	})

	Describe("SelectVehicle", func() {
		It("is a no-op without a train", func() {
			sel.SelectVehicle(0)
			Expect(index(sel.VehicleIndex)).To(Equal(-1))
		})

		It("resolves out of range indices to the first vehicle", func() {
			sel.SelectRide(0)
			sel.SelectVehicle(2)
			Expect(index(sel.VehicleIndex)).To(Equal(2))

			sel.SelectVehicle(3)
			Expect(index(sel.VehicleIndex)).To(Equal(0))
		})
	})

	Describe("cascade ordering", func() {
		It("publishes every list before the index that points into it", func() {
			var events []string
			check := func(name string, get func() (int, bool), length func() int) {
				if idx, ok := get(); ok && idx >= length() {
					Fail(fmt.Sprintf("%s: index %d out of range for list of %d", name, idx, length()))
				}
				events = append(events, name)
			}
			trains := func() int { return len(sel.TrainsOnRide().Get()) }
			vehicles := func() int { return len(sel.VehiclesOnTrain().Get()) }

			sel.Ride().Subscribe(func(*world.RideSummary) { events = append(events, "ride") })
			sel.TrainsOnRide().Subscribe(func([]world.TrainHandle) { check("trains", sel.TrainIndex, trains) })
			sel.Train().Subscribe(func(*world.TrainHandle) { check("train", sel.TrainIndex, trains) })
			sel.VehiclesOnTrain().Subscribe(func([]world.Vehicle) { check("vehicles", sel.VehicleIndex, vehicles) })
			sel.Vehicle().Subscribe(func(*world.Vehicle) { check("vehicle", sel.VehicleIndex, vehicles) })

			sel.SelectRide(0, 0, 2)
			events = nil
			sel.SelectRide(1)

			Expect(events).To(Equal([]string{"ride", "trains", "train", "vehicles", "vehicle"}))
		})
	})

	Describe("SelectEntity", func() {
		It("selects the ride, train and vehicle holding the entity", func() {
			target := p.Vehicles(1, 1)[1]

			Expect(sel.SelectEntity(target.EntityID())).To(BeTrue())
			Expect(index(sel.RideIndex)).To(Equal(0))
			Expect(index(sel.TrainIndex)).To(Equal(1))
			Expect(index(sel.VehicleIndex)).To(Equal(1))
			Expect(sel.Vehicle().Get().EntityID()).To(Equal(target.EntityID()))
		})

		It("leaves the selection alone for unknown entities", func() {
			sel.SelectRide(1)

			Expect(sel.SelectEntity(9999)).To(BeFalse())
			Expect(index(sel.RideIndex)).To(Equal(1))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
		})

		It("reloads the ride list for rides built after the last refresh", func() {
			id := p.AddRide(0, "Late")
			_, err := p.AddTrain(id, park.CarSpec{RideType: 0})
			Expect(err).NotTo(HaveOccurred())
			late := p.Vehicles(id, 0)[0]

			Expect(sel.SelectEntity(late.EntityID())).To(BeTrue())
			Expect(sel.RidesInPark().Get()).To(HaveLen(4))
			Expect(sel.Ride().Get().Name).To(Equal("Late"))
		})
	})

	Describe("Sync", func() {
		It("does nothing while the ride is unchanged", func() {
			sel.SelectRide(0, 1, 1)

			Expect(sel.Sync()).To(BeFalse())
			Expect(index(sel.TrainIndex)).To(Equal(1))
		})

		It("follows the vehicle when an earlier train is removed", func() {
			sel.SelectRide(0, 1, 1)
			selected := sel.Vehicle().Get().EntityID()
			Expect(p.RemoveTrain(1, 0)).To(Succeed())

			Expect(sel.Sync()).To(BeTrue())

			Expect(sel.TrainsOnRide().Get()).To(HaveLen(1))
			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(index(sel.VehicleIndex)).To(Equal(1))
			Expect(sel.Vehicle().Get().EntityID()).To(Equal(selected))
		})

		It("follows the vehicle when one in front of it is removed", func() {
			sel.SelectRide(0, 0, 2)
			selected := sel.Vehicle().Get().EntityID()
			front := sel.VehiclesOnTrain().Get()[0].EntityID()
			Expect(p.RemoveVehicle(front)).To(BeTrue())

			Expect(sel.Sync()).To(BeTrue())

			Expect(sel.VehiclesOnTrain().Get()).To(HaveLen(2))
			Expect(index(sel.VehicleIndex)).To(Equal(1))
			Expect(sel.Vehicle().Get().EntityID()).To(Equal(selected))
		})

		It("falls back to the first train when the selected train is removed", func() {
			sel.SelectRide(0, 1, 1)
			Expect(p.RemoveTrain(1, 1)).To(Succeed())

			Expect(sel.Sync()).To(BeTrue())

			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
		})

		It("picks up the first train built on an empty ride", func() {
			sel.SelectRide(2)
			Expect(sel.Vehicle().Get()).To(BeNil())
			_, err := p.AddTrain(3, park.CarSpec{RideType: 0, Seats: 2})
			Expect(err).NotTo(HaveOccurred())

			Expect(sel.Sync()).To(BeTrue())

			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(sel.Vehicle().Get()).NotTo(BeNil())
		})
	})

	Describe("SelectTrain after the train list shrank", func() {
		It("resolves against the park instead of the cached list", func() {
			sel.SelectRide(0)
			Expect(p.RemoveTrain(1, 1)).To(Succeed())

			sel.SelectTrain(1)

			Expect(sel.TrainsOnRide().Get()).To(HaveLen(1))
			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(sel.VehiclesOnTrain().Get()).To(HaveLen(3))
			Expect(sel.Vehicle().Get()).NotTo(BeNil())
		})
	})

	Describe("Revalidate", func() {
		It("keeps indices that are still valid", func() {
			sel.SelectRide(0, 1, 1)
			sel.Revalidate()

			Expect(index(sel.TrainIndex)).To(Equal(1))
			Expect(index(sel.VehicleIndex)).To(Equal(1))
		})

		It("falls back when the selected train disappeared", func() {
			sel.SelectRide(0, 1, 1)
			Expect(p.RemoveTrain(1, 1)).To(Succeed())

			sel.Revalidate()

			Expect(index(sel.TrainIndex)).To(Equal(0))
			Expect(index(sel.VehicleIndex)).To(Equal(0))
			Expect(sel.TrainsOnRide().Get()).To(HaveLen(1))
		})

		It("follows the ride to its new position in the list", func() {
			sel.SelectRide(1)
			Expect(p.RemoveRide(1)).To(Succeed())

			sel.Revalidate()

			Expect(index(sel.RideIndex)).To(Equal(0))
			Expect(sel.Ride().Get().Name).To(Equal("Karts"))
		})

		It("clears everything when the ride was demolished", func() {
			sel.SelectRide(1)
			Expect(p.RemoveRide(2)).To(Succeed())

			sel.Revalidate()

			Expect(index(sel.RideIndex)).To(Equal(-1))
			Expect(index(sel.TrainIndex)).To(Equal(-1))
			Expect(index(sel.VehicleIndex)).To(Equal(-1))
			Expect(sel.Ride().Get()).To(BeNil())
			Expect(sel.Vehicle().Get()).To(BeNil())
		})
	})
})
