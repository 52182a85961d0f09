package cosign

import (
	"testing"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/treasurytest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCosigners(t *testing.T) {
	Convey("Given a vote set", t, func() {
		x := NewCosigner(treasurytest.Context("tx-1"), voterX)
		y := NewCosigner(treasurytest.Context("tx-2"), voterY)
		z := NewCosigner(treasurytest.Context("tx-3"), voterZ)

		var set Cosigners
		set, _ = set.Insert(x)
		set, _ = set.Insert(y)
		set, _ = set.Insert(z)

		Convey("Votes are kept in the order they were cast", func() {
			So(set.Len(), ShouldEqual, 3)
			So(set.VoterIDs(), ShouldResemble, [][]byte{voterX, voterY, voterZ})
		})

		Convey("Cosigners are equal when cast by the same voter", func() {
			again := NewCosigner(treasurytest.Context("tx-4"), voterX)
			So(again.Nonce, ShouldNotResemble, x.Nonce)
			So(again.Equals(x), ShouldBeTrue)
			So(again.Equals(y), ShouldBeFalse)
		})

		Convey("Nonce is the id of the transaction", func() {
			ctx := treasurytest.Context("tx-5")
			So(NewCosigner(ctx, voterX).Nonce, ShouldResemble, treasury.GetTxID(ctx))
		})

		Convey("A second vote of the same voter is rejected", func() {
			again := NewCosigner(treasurytest.Context("tx-4"), voterY)
			res, ok := set.Insert(again)
			So(ok, ShouldBeFalse)
			So(res.Len(), ShouldEqual, 3)
			So(res[1].Nonce, ShouldResemble, y.Nonce)
		})

		Convey("Removing a vote keeps the order of the others", func() {
			res, ok := set.Remove(voterX)
			So(ok, ShouldBeTrue)
			So(res.VoterIDs(), ShouldResemble, [][]byte{voterY, voterZ})

			Convey("The original set is not modified", func() {
				So(set.VoterIDs(), ShouldResemble, [][]byte{voterX, voterY, voterZ})
			})

			Convey("Removing it again fails", func() {
				_, ok := res.Remove(voterX)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Retain drops rejected votes", func() {
			reg := newMemRegistry(voterX, voterZ)
			res, err := set.Retain(func(c *Cosigner) (bool, error) {
				return c.IsEnabled(nil, reg)
			})
			So(err, ShouldBeNil)
			So(res.VoterIDs(), ShouldResemble, [][]byte{voterX, voterZ})
		})

		Convey("Retain fails with the callback", func() {
			_, err := set.Retain(func(c *Cosigner) (bool, error) {
				return false, errors.ErrDatabase
			})
			So(errors.ErrDatabase.Is(err), ShouldBeTrue)
		})

		Convey("A set is valid", func() {
			So(set.Validate(), ShouldBeNil)

			Convey("unless it contains a voter twice", func() {
				broken := append(set, NewCosigner(treasurytest.Context("tx-9"), voterZ))
				So(ErrDuplicateVote.Is(broken.Validate()), ShouldBeTrue)
			})

			Convey("unless a vote has no voter", func() {
				broken := append(Cosigners{}, &Cosigner{Nonce: []byte("n")})
				So(errors.ErrEmpty.Is(broken.Validate()), ShouldBeTrue)
			})
		})
	})
}
