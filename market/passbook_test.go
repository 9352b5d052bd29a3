package market

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/revshare"
	"github.com/bitfsorg/passbook-go/token"
	"github.com/bitfsorg/passbook-go/wallet"
)

// --- InitPassBook ---

func TestInitPassBook(t *testing.T) {
	f := newFixture(t)
	req := f.initRequest()
	req.MaxSupply = ptr[uint64](10)
	req.Access = ptr[uint64](30)
	addr := f.initPassBook(req)

	assert.Equal(t, f.engine.PassBookAddress(f.mint), addr)

	pb := f.passBook(addr)
	assert.Equal(t, f.authority.Address(), pb.Authority)
	assert.Equal(t, "Gym Pass", pb.Name)
	assert.Equal(t, record.PassNotActivated, pb.State)
	assert.Equal(t, f.now.Unix(), pb.CreatedAt)
	assert.Equal(t, uint64(0), pb.Supply)
	assert.Equal(t, uint64(10), *pb.MaxSupply)
	assert.Equal(t, f.deriver.Vault(addr).Address, pb.Vault)
	require.Len(t, pb.Creators, 2)

	// The master collectible moved into the vault.
	assert.Equal(t, uint64(1), f.balance(pb.Vault))
	assert.Equal(t, uint64(0), f.balance(f.master))

	s := f.store()
	assert.Equal(t, uint64(1), s.PassBookCount)
	require.NotNil(t, s.Referrer)
	assert.Equal(t, f.referrer.Address(), *s.Referrer)

	for _, recipient := range []address.Address{
		f.creatorA.Address(), f.creatorB.Address(), f.authority.Address(),
		f.operator.Address(), f.referrer.Address(),
	} {
		p, err := f.engine.Payout(context.Background(), recipient, address.Native)
		require.NoError(t, err)
		assert.Equal(t, recipient, p.Treasury, "native payouts settle to the recipient")
		assert.Zero(t, p.CashIn)
	}
}

func TestInitPassBook_TokenAssetOpensTreasuries(t *testing.T) {
	f := newFixture(t)
	asset := fill(0xA5)
	req := f.initRequest()
	req.PriceAsset = asset
	f.initPassBook(req)

	payoutAddr := f.engine.PayoutAddress(f.creatorA.Address(), asset)
	p, err := f.engine.Payout(context.Background(), f.creatorA.Address(), asset)
	require.NoError(t, err)
	assert.Equal(t, f.deriver.Treasury(payoutAddr).Address, p.Treasury)

	acct, err := f.tokens.Account(context.Background(), p.Treasury)
	require.NoError(t, err)
	assert.Equal(t, f.creatorA.Address(), acct.Owner)
	assert.Equal(t, asset, acct.Asset)
}

func TestInitPassBook_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, req *InitPassBookRequest)
		signer func(f *fixture) []*wallet.KeyPair
		want   error
	}{
		{"name too long", func(f *fixture, r *InitPassBookRequest) { r.Name = strings.Repeat("n", record.MaxNameLength+1) }, nil, record.ErrNameTooLong},
		{"description too long", func(f *fixture, r *InitPassBookRequest) {
			r.Description = strings.Repeat("d", record.MaxDescriptionLength+1)
		}, nil, record.ErrDescriptionTooLong},
		{"uri too long", func(f *fixture, r *InitPassBookRequest) { r.URI = strings.Repeat("u", record.MaxURILength+1) }, nil, record.ErrURITooLong},
		{"blur hash too long", func(f *fixture, r *InitPassBookRequest) {
			r.BlurHash = ptr(strings.Repeat("b", record.MaxBlurHashLength+1))
		}, nil, record.ErrBlurHashTooLong},
		{"zero duration", func(f *fixture, r *InitPassBookRequest) { r.Duration = ptr[uint64](0) }, nil, ErrWrongDuration},
		{"zero access", func(f *fixture, r *InitPassBookRequest) { r.Access = ptr[uint64](0) }, nil, ErrWrongValidityPeriod},
		{"zero max supply", func(f *fixture, r *InitPassBookRequest) { r.MaxSupply = ptr[uint64](0) }, nil, ErrWrongMaxSupply},
		{"zero buy limit", func(f *fixture, r *InitPassBookRequest) { r.PiecesInOneWallet = ptr[uint64](0) }, nil, ErrWrongBuyLimit},
		{"zero max uses", func(f *fixture, r *InitPassBookRequest) { r.MaxUses = ptr[uint64](0) }, nil, ErrWrongMaxUses},
		{"no creators", func(f *fixture, r *InitPassBookRequest) { r.Creators = nil }, nil, revshare.ErrNoCreators},
		{"shares not 100", func(f *fixture, r *InitPassBookRequest) { r.Creators[1].Share = 40 }, nil, revshare.ErrInvalidShares},
		{"too many creators", func(f *fixture, r *InitPassBookRequest) {
			r.Creators = make([]record.Creator, record.MaxCreators+1)
			for i := range r.Creators {
				r.Creators[i] = record.Creator{Address: fill(byte(i + 1)), Share: 10}
			}
		}, nil, record.ErrTooManyCreators},
		{"master account of another asset", func(f *fixture, r *InitPassBookRequest) { r.MasterAccount = fill(0x77) }, nil, ErrInvalidMasterAccount},
		{"unknown master account", func(f *fixture, r *InitPassBookRequest) { r.MasterAccount = address.Native }, nil, ErrInvalidMasterAccount},
		{"authority did not sign", func(f *fixture, r *InitPassBookRequest) {}, func(f *fixture) []*wallet.KeyPair {
			return []*wallet.KeyPair{f.operator}
		}, ErrMissingSignature},
		{"market authority did not sign", func(f *fixture, r *InitPassBookRequest) {}, func(f *fixture) []*wallet.KeyPair {
			return []*wallet.KeyPair{f.authority}
		}, ErrInvalidMarketAuthority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.initRequest()
			tt.mutate(f, &req)
			signers := []*wallet.KeyPair{f.authority, f.operator}
			if tt.signer != nil {
				signers = tt.signer(f)
			}

			_, err := f.engine.InitPassBook(context.Background(), f.auth(signers...), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.mem.Len(), "rejected init must not write")
			assert.Equal(t, uint64(1), f.balance(f.master))
		})
	}
}

func TestInitPassBook_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.initPassBook(f.initRequest())

	_, err := f.engine.InitPassBook(context.Background(), f.auth(f.authority, f.operator), f.initRequest())
	assert.ErrorIs(t, err, ErrPassBookExists)
	assert.Equal(t, CategoryState, CategoryOf(err))
	assert.Equal(t, uint64(1), f.store().PassBookCount)
}

func TestInitPassBook_ReferrerSetOnce(t *testing.T) {
	f := newFixture(t)
	f.initPassBook(f.initRequest())

	// The same referrer is accepted on later pass books.
	req := f.initRequest()
	req.Mint, req.MasterAccount = f.collectible(0x20)
	f.initPassBook(req)
	assert.Equal(t, uint64(2), f.store().PassBookCount)

	other := fill(0x99)
	req = f.initRequest()
	req.Mint, req.MasterAccount = f.collectible(0x30)
	req.Referrer = &other
	_, err := f.engine.InitPassBook(context.Background(), f.auth(f.authority, f.operator), req)
	assert.ErrorIs(t, err, ErrReferrerAlreadySet)

	// Omitting the referrer keeps the stored one.
	req.Referrer = nil
	f.initPassBook(req)
	s := f.store()
	assert.Equal(t, f.referrer.Address(), *s.Referrer)
	assert.Equal(t, uint64(3), s.PassBookCount)
}

func TestInitPassBook_NoMarketAuthority(t *testing.T) {
	f := newFixture(t)
	req := f.initRequest()
	req.MarketAuthority = nil
	_, err := f.engine.InitPassBook(context.Background(), f.auth(f.authority), req)
	require.NoError(t, err)

	_, err = f.engine.Payout(context.Background(), f.operator.Address(), address.Native)
	assert.Error(t, err)
}

// --- Lifecycle ---

func TestPassBookLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.initPassBook(f.initRequest())
	owner := f.auth(f.authority)

	err := f.engine.DeactivatePassBook(ctx, owner, addr)
	assert.ErrorIs(t, err, record.ErrPassNotActivated)

	require.NoError(t, f.engine.ActivatePassBook(ctx, owner, addr))
	err = f.engine.ActivatePassBook(ctx, owner, addr)
	assert.ErrorIs(t, err, record.ErrPassBookAlreadyActivated)

	require.NoError(t, f.engine.DeactivatePassBook(ctx, owner, addr))
	err = f.engine.DeactivatePassBook(ctx, owner, addr)
	assert.ErrorIs(t, err, record.ErrPassBookAlreadyDeactivated)

	require.NoError(t, f.engine.ActivatePassBook(ctx, owner, addr))
	assert.Equal(t, record.PassActivated, f.passBook(addr).State)
}

func TestPassBookLifecycle_RequiresAuthority(t *testing.T) {
	f := newFixture(t)
	addr := f.initPassBook(f.initRequest())

	err := f.engine.ActivatePassBook(context.Background(), f.auth(f.operator), addr)
	assert.ErrorIs(t, err, ErrMissingSignature)
	assert.Equal(t, record.PassNotActivated, f.passBook(addr).State)
}

func TestPassBookLifecycle_Unknown(t *testing.T) {
	f := newFixture(t)
	err := f.engine.ActivatePassBook(context.Background(), f.auth(f.authority), fill(0x42))
	assert.ErrorIs(t, err, ErrPassBookNotFound)
}

// --- Edit ---

func TestEditPassBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.initPassBook(f.initRequest())
	owner := f.auth(f.authority)

	_, err := f.engine.EditPassBook(ctx, owner, addr, record.Edit{Name: ptr("Gym Pass")})
	assert.ErrorIs(t, err, record.ErrCantSetTheSameValue)

	_, err = f.engine.EditPassBook(ctx, owner, addr, record.Edit{Name: ptr("Pool Pass"), Price: ptr[uint64](10_000_000)})
	assert.ErrorIs(t, err, record.ErrCantSetTheSameValue)
	assert.Equal(t, "Gym Pass", f.passBook(addr).Name, "a failed edit changes nothing")

	pb, err := f.engine.EditPassBook(ctx, owner, addr, record.Edit{
		Name:     ptr("Pool Pass"),
		Price:    ptr[uint64](5_000),
		BlurHash: ptr("LEHV6nWB2yk8"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pool Pass", pb.Name)

	stored := f.passBook(addr)
	assert.Equal(t, "Pool Pass", stored.Name)
	assert.Equal(t, uint64(5_000), stored.Price)
	assert.Equal(t, "LEHV6nWB2yk8", *stored.BlurHash)

	_, err = f.engine.EditPassBook(ctx, owner, addr, record.Edit{})
	assert.ErrorIs(t, err, record.ErrEmptyEdit)
}

func TestEditPassBook_Gates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.activePassBook(f.initRequest())
	owner := f.auth(f.authority)

	_, err := f.engine.EditPassBook(ctx, owner, addr, record.Edit{Name: ptr("Pool Pass")})
	assert.ErrorIs(t, err, record.ErrWrongPassState)

	require.NoError(t, f.engine.DeactivatePassBook(ctx, owner, addr))
	_, err = f.engine.EditPassBook(ctx, owner, addr, record.Edit{Mutable: ptr(false)})
	require.NoError(t, err)

	_, err = f.engine.EditPassBook(ctx, owner, addr, record.Edit{Name: ptr("Pool Pass")})
	assert.ErrorIs(t, err, record.ErrImmutablePassBook)

	_, err = f.engine.EditPassBook(ctx, f.auth(f.creatorA), addr, record.Edit{Name: ptr("Pool Pass")})
	assert.ErrorIs(t, err, ErrMissingSignature)
}

// --- Delete ---

func TestDeletePassBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addr := f.initPassBook(f.initRequest())
	vault := f.passBook(addr).Vault

	refund := fill(0x5E)
	require.NoError(t, f.tokens.CreateAccount(refund, f.authority.Address(), f.mint))

	err := f.engine.DeletePassBook(ctx, f.auth(f.creatorA), addr, refund)
	assert.ErrorIs(t, err, ErrMissingSignature)

	require.NoError(t, f.engine.DeletePassBook(ctx, f.auth(f.authority), addr, refund))
	assert.Equal(t, uint64(1), f.balance(refund))
	assert.Equal(t, uint64(0), f.balance(vault))

	_, err = f.engine.PassBook(ctx, addr)
	assert.ErrorIs(t, err, ErrPassBookNotFound)
}

func TestDeletePassBook_BadRefundRollsBack(t *testing.T) {
	f := newFixture(t)
	addr := f.initPassBook(f.initRequest())

	// A native refund destination cannot hold the collectible.
	err := f.engine.DeletePassBook(context.Background(), f.auth(f.authority), addr, fill(0x5F))
	assert.ErrorIs(t, err, token.ErrAssetMismatch)

	pb := f.passBook(addr)
	assert.Equal(t, uint64(1), f.balance(pb.Vault))
}
