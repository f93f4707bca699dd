/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncred

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/pkg/errors"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
)

const (
	// StoreName is the name of the store holding issuance records.
	StoreName = "anoncred_credentials"

	tagAnonID         = AttrAnonID
	tagCreditCategory = AttrCreditCategory

	defaultIssuerName = "Government Identity Authority"
	nonceSize         = 16
)

// Record is what an issuer keeps about an issued credential. It holds no signature or identity data.
type Record struct {
	ID             string     `json:"id"`
	AnonID         string     `json:"anonId"`
	CreditCategory string     `json:"creditCategory"`
	IssuedAt       time.Time  `json:"issuedAt"`
	RevokedAt      *time.Time `json:"revokedAt,omitempty"`
}

// Revoked reports whether the credential was revoked.
func (r *Record) Revoked() bool {
	return r.RevokedAt != nil
}

// VerificationResult is the outcome of Issuer.VerifyCredential.
type VerificationResult struct {
	Valid  bool   `json:"valid"`
	Issuer string `json:"issuer"`
	AnonID string `json:"anonId"`
	Reason string `json:"reason,omitempty"`
}

type issuerOpts struct {
	name    string
	cs      *bbs.Ciphersuite
	privKey *bbs.PrivateKey
	now     func() time.Time
	rand    io.Reader
}

// IssuerOpt configures an Issuer.
type IssuerOpt func(*issuerOpts)

// WithIssuerName sets the name reported in credentials.
func WithIssuerName(name string) IssuerOpt {
	return func(opts *issuerOpts) {
		opts.name = name
	}
}

// WithCiphersuite sets the BBS ciphersuite, BLS12381SHAKE256 by default.
func WithCiphersuite(cs *bbs.Ciphersuite) IssuerOpt {
	return func(opts *issuerOpts) {
		opts.cs = cs
	}
}

// WithPrivateKey sets the issuer signing key. A fresh key is generated when unset.
func WithPrivateKey(privKey *bbs.PrivateKey) IssuerOpt {
	return func(opts *issuerOpts) {
		opts.privKey = privKey
	}
}

// WithClock sets the time source used for issuance dates and ages.
func WithClock(now func() time.Time) IssuerOpt {
	return func(opts *issuerOpts) {
		opts.now = now
	}
}

// WithRandomReader sets the source of credential nonces.
func WithRandomReader(r io.Reader) IssuerOpt {
	return func(opts *issuerOpts) {
		opts.rand = r
	}
}

// Issuer signs credentials and keeps a record of each one in a store.
type Issuer struct {
	name        string
	signer      *bbs.BBSG2Pub
	privKey     *bbs.PrivateKey
	pubKeyBytes []byte
	store       storage.Store
	now         func() time.Time
	rand        io.Reader
}

// NewIssuer opens the issuance store of provider and returns an Issuer.
func NewIssuer(provider storage.Provider, opts ...IssuerOpt) (*Issuer, error) {
	o := &issuerOpts{
		name: defaultIssuerName,
		cs:   bbs.BLS12381SHAKE256,
		now:  time.Now,
		rand: rand.Reader,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.privKey == nil {
		_, privKey, err := o.cs.GenerateKeyPair(nil)
		if err != nil {
			return nil, errors.Wrap(err, "generate issuer key pair")
		}

		o.privKey = privKey
	}

	pubKeyBytes, err := o.privKey.PublicKey().Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal issuer public key")
	}

	store, err := provider.OpenStore(StoreName)
	if err != nil {
		return nil, errors.Wrap(err, "open issuer store")
	}

	err = provider.SetStoreConfig(StoreName, storage.StoreConfiguration{
		TagNames: []string{tagAnonID, tagCreditCategory},
	})
	if err != nil {
		return nil, errors.Wrap(err, "set issuer store config")
	}

	logger.Infof("%s: issuer initialized with ciphersuite %s", o.name, o.cs.Name())

	return &Issuer{
		name:        o.name,
		signer:      bbs.New(bbs.WithCiphersuite(o.cs)),
		privKey:     o.privKey,
		pubKeyBytes: pubKeyBytes,
		store:       store,
		now:         o.now,
		rand:        o.rand,
	}, nil
}

// Name returns the issuer name.
func (i *Issuer) Name() string {
	return i.name
}

// PublicKey returns the compressed issuer public key.
func (i *Issuer) PublicKey() []byte {
	return append([]byte(nil), i.pubKeyBytes...)
}

// Issue signs the attributes derived from req and records the credential.
func (i *Issuer) Issue(ctx context.Context, req *IssueRequest) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := req.validate(); err != nil {
		return nil, err
	}

	category, err := CreditCategory(req.CreditScore)
	if err != nil {
		return nil, err
	}

	now := i.now()

	years, err := age(req.Birthdate, now)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err = io.ReadFull(i.rand, nonce); err != nil {
		return nil, errors.Wrap(err, "read credential nonce")
	}

	anonID, identityKey := AnonID(req.Identity())

	values := map[string]string{
		AttrAnonID:            anonID,
		AttrCreditAccumulator: accumulatorRef(req.CreditScore, anonID),
		AttrCreditCategory:    category,
		AttrNameHash:          blake2bHex(req.Name + ":" + req.Surname),
		AttrLocationHash:      blake2bHex(req.Location),
		AttrSSNHash:           blake2bHex(req.SSN),
		AttrAge:               strconv.Itoa(years),
		AttrNonce:             hex.EncodeToString(nonce),
	}

	attributes := make([][]byte, len(attributeLabels))
	for idx, name := range attributeLabels {
		attributes[idx] = encodeAttribute(name, values[name])
	}

	signature, err := i.signer.SignWithKey(nil, attributes, i.privKey)
	if err != nil {
		return nil, errors.Wrap(err, "sign credential")
	}

	record := &Record{
		ID:             uuid.New().String(),
		AnonID:         anonID,
		CreditCategory: category,
		IssuedAt:       now,
	}

	if err = i.put(record); err != nil {
		return nil, err
	}

	logger.Infof("%s: credential %s issued for anonymous id %s...", i.name, record.ID, anonID[:8])

	return &Credential{
		ID:              record.ID,
		Ciphersuite:     i.signer.Ciphersuite().Name(),
		Signature:       signature,
		Attributes:      attributes,
		AttributeLabels: AttributeLabels(),
		IssuerPublicKey: i.PublicKey(),
		IssuerName:      i.name,
		IssuedAt:        now,
		AnonID:          anonID,
		IdentityKey:     identityKey,
	}, nil
}

// Lookup returns the record of credential id.
func (i *Issuer) Lookup(id string) (*Record, error) {
	raw, err := i.store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrDataNotFound) {
			return nil, errors.Wrapf(ErrCredentialNotFound, "credential %s", id)
		}

		return nil, errors.Wrap(err, "get credential record")
	}

	record := &Record{}
	if err = json.Unmarshal(raw, record); err != nil {
		return nil, errors.Wrap(err, "unmarshal credential record")
	}

	return record, nil
}

// ListByAnonID returns the records of every credential issued to anonID.
func (i *Issuer) ListByAnonID(anonID string) ([]*Record, error) {
	iter, err := i.store.Query(tagAnonID + ":" + anonID)
	if err != nil {
		return nil, errors.Wrap(err, "query credential records")
	}

	defer storage.Close(iter, logger)

	var records []*Record

	for {
		more, err := iter.Next()
		if err != nil {
			return nil, errors.Wrap(err, "next credential record")
		}

		if !more {
			break
		}

		raw, err := iter.Value()
		if err != nil {
			return nil, errors.Wrap(err, "credential record value")
		}

		record := &Record{}
		if err = json.Unmarshal(raw, record); err != nil {
			return nil, errors.Wrap(err, "unmarshal credential record")
		}

		records = append(records, record)
	}

	return records, nil
}

// Revoke marks credential id as revoked. Revoking twice keeps the first revocation time.
func (i *Issuer) Revoke(id string) error {
	record, err := i.Lookup(id)
	if err != nil {
		return err
	}

	if record.Revoked() {
		return nil
	}

	now := i.now()
	record.RevokedAt = &now

	if err = i.put(record); err != nil {
		return err
	}

	logger.Infof("%s: credential %s revoked", i.name, id)

	return nil
}

// VerifyCredential checks that cred was signed by this issuer and has not been revoked.
func (i *Issuer) VerifyCredential(cred *Credential) *VerificationResult {
	result := &VerificationResult{Issuer: i.name, AnonID: cred.AnonID}

	if string(cred.IssuerPublicKey) != string(i.pubKeyBytes) {
		result.Reason = "credential was not issued by " + i.name

		return result
	}

	ok, err := i.signer.Verify(nil, cred.Attributes, cred.Signature, i.pubKeyBytes)
	if !ok {
		logger.Warnf("%s: credential verification failed: %s", i.name, err)

		result.Reason = err.Error()

		return result
	}

	record, err := i.Lookup(cred.ID)
	if err != nil {
		result.Reason = err.Error()

		return result
	}

	if record.Revoked() {
		result.Reason = "credential revoked"

		return result
	}

	result.Valid = true

	return result
}

func (i *Issuer) put(record *Record) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal credential record")
	}

	err = i.store.Put(record.ID, raw,
		storage.Tag{Name: tagAnonID, Value: record.AnonID},
		storage.Tag{Name: tagCreditCategory, Value: record.CreditCategory},
	)
	if err != nil {
		return errors.Wrap(err, "store credential record")
	}

	return nil
}
