package will

import (
	"testing"

	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWillLifecycle(t *testing.T) {
	Convey("Given a will with two executors and a 100 seconds interval", t, func() {
		e := newEnv(CancelForbidden, 2)
		id := e.create(2, 100, 10)
		custody := CustodyAddress(id)

		Convey("A check in postpones the trigger", func() {
			_, err := e.deliver(t0+50, &CheckInMsg{WillID: id}, e.owner)
			So(err, ShouldBeNil)

			_, err = e.deliver(t0+149, &CheckTriggerMsg{WillID: id})
			So(ErrNotYetDue.Is(err), ShouldBeTrue)
			So(e.will(id).State, ShouldEqual, WillActive)

			_, err = e.deliver(t0+151, &CheckTriggerMsg{WillID: id})
			So(err, ShouldBeNil)
			So(e.will(id).State, ShouldEqual, WillTriggerable)
		})

		Convey("When the will is triggered", func() {
			bens := e.allocate(id, map[string]int64{"alice": 70, "bob": 30})
			_, err := e.deliver(t0+100, &CheckTriggerMsg{WillID: id})
			So(err, ShouldBeNil)
			first, second := e.executors[0], e.executors[1]

			Convey("Executors approve once each and the will executes", func() {
				_, err := e.deliver(t0+110, &ApproveMsg{WillID: id}, first)
				So(err, ShouldBeNil)
				_, err = e.deliver(t0+111, &ApproveMsg{WillID: id}, first)
				So(ErrAlreadyApproved.Is(err), ShouldBeTrue)
				_, err = e.deliver(t0+112, &ApproveMsg{WillID: id}, second)
				So(err, ShouldBeNil)

				_, err = e.deliver(t0+113, &ExecuteMsg{WillID: id})
				So(err, ShouldBeNil)
				So(e.will(id).State, ShouldEqual, WillExecuted)
				So(e.balance(custody).IsEmpty(), ShouldBeTrue)
				So(e.balance(bens["alice"]).Get("IOV"), ShouldResemble, coin.NewCoin(7, 0, "IOV"))
				So(e.balance(bens["bob"]).Get("IOV"), ShouldResemble, coin.NewCoin(3, 0, "IOV"))
			})

			Convey("The owner revives the will and approvals are gone", func() {
				_, err := e.deliver(t0+110, &ApproveMsg{WillID: id}, first)
				So(err, ShouldBeNil)

				_, err = e.deliver(t0+120, &ReviveCheckInMsg{WillID: id}, e.owner)
				So(err, ShouldBeNil)
				w := e.will(id)
				So(w.State, ShouldEqual, WillActive)
				So(w.Approvals, ShouldBeEmpty)
				So(int64(w.LastCheckIn), ShouldEqual, t0+120)

				_, err = e.deliver(t0+121, &ApproveMsg{WillID: id}, second)
				So(errors.ErrState.Is(err), ShouldBeTrue)
			})

			Convey("Only the owner can revive the will", func() {
				_, err := e.deliver(t0+120, &ReviveCheckInMsg{WillID: id}, first)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
				So(e.will(id).State, ShouldEqual, WillTriggerable)
			})
		})

		Convey("Execution without beneficiaries is refused", func() {
			e.trigger(id)
			e.approveAll(id, 2)

			_, err := e.deliver(t0+200, &ExecuteMsg{WillID: id})
			So(ErrNoBeneficiaries.Is(err), ShouldBeTrue)
			So(e.will(id).State, ShouldEqual, WillTriggerable)
			So(e.balance(custody), ShouldResemble, coin.Coins{coin.NewCoinp(10, 0, "IOV")})

			Convey("and beneficiaries cannot be added any more", func() {
				_, err := e.deliver(t0+201, &SetAllocationMsg{WillID: id, Beneficiary: e.owner.Address(), Share: 1}, e.owner)
				So(errors.ErrState.Is(err), ShouldBeTrue)
			})
		})
	})
}
