/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bbs12381g2pub_test

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	bbs "github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bbs12381g2pub"
	"github.com/hyperledger/aries-bbs-credentials/pkg/crypto/primitive/bls12381"
)

func ciphersuites() []*bbs.Ciphersuite {
	return []*bbs.Ciphersuite{bbs.BLS12381SHA256, bbs.BLS12381SHAKE256}
}

func TestBBSG2Pub_SignVerify(t *testing.T) {
	for _, cs := range ciphersuites() {
		cs := cs
		t.Run(cs.Name(), func(t *testing.T) {
			keys := newTestKeys(t, cs)
			header := hexStringToBytesTest(t, testHeader)
			messagesBytes := default10messages(t)
			bls := bbs.New(bbs.WithCiphersuite(cs))

			sigBytes, err := bls.Sign(header, messagesBytes, keys.privKeyByte)
			require.NoError(t, err)
			require.Len(t, sigBytes, 80)

			t.Run("valid signature", func(t *testing.T) {
				ok, err := bls.Verify(header, messagesBytes, sigBytes, keys.pubKeyBytes)
				require.NoError(t, err)
				require.True(t, ok)
			})

			t.Run("deterministic", func(t *testing.T) {
				again, err := bls.SignWithKey(header, messagesBytes, keys.privKey)
				require.NoError(t, err)
				require.Equal(t, sigBytes, again)
			})

			t.Run("modified message", func(t *testing.T) {
				invalidMessagesBytes := make([][]byte, len(messagesBytes))
				copy(invalidMessagesBytes, messagesBytes)
				invalidMessagesBytes[0] = invalidMessagesBytes[1]

				ok, err := bls.Verify(header, invalidMessagesBytes, sigBytes, keys.pubKeyBytes)
				require.ErrorIs(t, err, bbs.ErrInvalidSignature)
				require.False(t, ok)

				ok, err = bls.Verify(header, messagesBytes[:9], sigBytes, keys.pubKeyBytes)
				require.ErrorIs(t, err, bbs.ErrInvalidSignature)
				require.False(t, ok)
			})

			t.Run("other header", func(t *testing.T) {
				ok, err := bls.Verify(nil, messagesBytes, sigBytes, keys.pubKeyBytes)
				require.ErrorIs(t, err, bbs.ErrInvalidSignature)
				require.False(t, ok)
			})

			t.Run("other public key", func(t *testing.T) {
				otherPub, _, err := cs.GenerateKeyPair(nil)
				require.NoError(t, err)

				otherPubBytes, err := otherPub.Marshal()
				require.NoError(t, err)

				ok, err := bls.Verify(header, messagesBytes, sigBytes, otherPubBytes)
				require.ErrorIs(t, err, bbs.ErrInvalidSignature)
				require.False(t, ok)
			})

			t.Run("other ciphersuite", func(t *testing.T) {
				other := bbs.BLS12381SHA256
				if cs == other {
					other = bbs.BLS12381SHAKE256
				}

				ok, err := bbs.New(bbs.WithCiphersuite(other)).Verify(header, messagesBytes, sigBytes,
					keys.pubKeyBytes)
				require.Error(t, err)
				require.False(t, ok)
			})
		})
	}
}

func TestBBSG2Pub_VerifyInvalidInput(t *testing.T) {
	keys := newTestKeys(t, bbs.BLS12381SHA256)
	messagesBytes := [][]byte{[]byte("message1"), []byte("message2")}
	bls := bbs.New()

	sigBytes, err := bls.Sign(nil, messagesBytes, keys.privKeyByte)
	require.NoError(t, err)

	t.Run("invalid input public key", func(t *testing.T) {
		ok, err := bls.Verify(nil, messagesBytes, sigBytes, []byte("invalid"))
		require.EqualError(t, err, "parse public key: invalid size of public key")
		require.False(t, ok)

		pkBytesInvalid := make([]byte, len(keys.pubKeyBytes))

		_, err = rand.Read(pkBytesInvalid)
		require.NoError(t, err)

		ok, err = bls.Verify(nil, messagesBytes, sigBytes, pkBytesInvalid)
		require.Error(t, err)
		require.Contains(t, err.Error(), "parse public key: deserialize public key")
		require.False(t, ok)
	})

	t.Run("invalid input signature", func(t *testing.T) {
		ok, err := bls.Verify(nil, messagesBytes, []byte("invalid"), keys.pubKeyBytes)
		require.EqualError(t, err, "parse signature: invalid size of signature")
		require.False(t, ok)

		sigBytesInvalid := make([]byte, len(sigBytes))

		_, err = rand.Read(sigBytesInvalid)
		require.NoError(t, err)

		ok, err = bls.Verify(nil, messagesBytes, sigBytesInvalid, keys.pubKeyBytes)
		require.Error(t, err)
		require.False(t, ok)
	})

	t.Run("identity signature point", func(t *testing.T) {
		forged := append(bls12381.G1Identity().Compress(), sigBytes[48:]...)

		ok, err := bls.Verify(nil, messagesBytes, forged, keys.pubKeyBytes)
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
		require.False(t, ok)
	})

	t.Run("scalar out of range", func(t *testing.T) {
		forged := append(append([]byte{}, sigBytes[:48]...), bytes.Repeat([]byte{0xff}, 32)...)

		ok, err := bls.Verify(nil, messagesBytes, forged, keys.pubKeyBytes)
		require.ErrorIs(t, err, bls12381.ErrInvalidScalar)
		require.False(t, ok)
	})

	t.Run("invalid private key bytes", func(t *testing.T) {
		signatureBytes, err := bls.Sign(nil, messagesBytes, []byte("invalid"))
		require.EqualError(t, err, "unmarshal private key: invalid size of private key")
		require.Nil(t, signatureBytes)
	})
}

func TestBBSG2Pub_HeaderOnly(t *testing.T) {
	for _, cs := range ciphersuites() {
		cs := cs
		t.Run(cs.Name(), func(t *testing.T) {
			keys := newTestKeys(t, cs)
			header := hexStringToBytesTest(t, testHeader)
			ph := hexStringToBytesTest(t, testPH)
			bls := bbs.New(bbs.WithCiphersuite(cs))

			sigBytes, err := bls.Sign(header, [][]byte{}, keys.privKeyByte)
			require.NoError(t, err)
			require.Len(t, sigBytes, 80)

			ok, err := bls.Verify(header, nil, sigBytes, keys.pubKeyBytes)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = bls.Verify(nil, nil, sigBytes, keys.pubKeyBytes)
			require.ErrorIs(t, err, bbs.ErrInvalidSignature)
			require.False(t, ok)

			ok, err = bls.Verify(header, [][]byte{[]byte("extra")}, sigBytes, keys.pubKeyBytes)
			require.ErrorIs(t, err, bbs.ErrInvalidSignature)
			require.False(t, ok)

			proofBytes, err := bls.DeriveProof(header, ph, nil, sigBytes, keys.pubKeyBytes, nil)
			require.NoError(t, err)
			require.Len(t, proofBytes, 3*48+4*32)

			ok, err = bls.VerifyProof(header, ph, nil, proofBytes, keys.pubKeyBytes, nil)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = bls.VerifyProof(header, []byte("other"), nil, proofBytes, keys.pubKeyBytes, nil)
			require.ErrorIs(t, err, bbs.ErrInvalidProof)
			require.False(t, ok)
		})
	}
}

func TestBBSG2Pub_DeriveProof(t *testing.T) {
	for _, cs := range ciphersuites() {
		cs := cs
		t.Run(cs.Name(), func(t *testing.T) {
			keys := newTestKeys(t, cs)
			header := hexStringToBytesTest(t, testHeader)
			ph := hexStringToBytesTest(t, testPH)
			messagesBytes := default10messages(t)
			bls := bbs.New(bbs.WithCiphersuite(cs))

			sigBytes, err := bls.Sign(header, messagesBytes, keys.privKeyByte)
			require.NoError(t, err)

			revealedIndexes := []int{0, 2}

			proofBytes, err := bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, revealedIndexes)
			require.NoError(t, err)
			require.Len(t, proofBytes, 3*48+4*32+8*32)

			revealedMessages := pick(messagesBytes, revealedIndexes)

			t.Run("valid proof", func(t *testing.T) {
				ok, err := bls.VerifyProof(header, ph, revealedMessages, proofBytes, keys.pubKeyBytes, revealedIndexes)
				require.NoError(t, err)
				require.True(t, ok)
			})

			t.Run("other presentation header", func(t *testing.T) {
				ok, err := bls.VerifyProof(header, []byte("other"), revealedMessages, proofBytes, keys.pubKeyBytes,
					revealedIndexes)
				require.ErrorIs(t, err, bbs.ErrInvalidProof)
				require.False(t, ok)
			})

			t.Run("other header", func(t *testing.T) {
				ok, err := bls.VerifyProof(nil, ph, revealedMessages, proofBytes, keys.pubKeyBytes, revealedIndexes)
				require.ErrorIs(t, err, bbs.ErrInvalidProof)
				require.False(t, ok)
			})

			t.Run("modified disclosed message", func(t *testing.T) {
				ok, err := bls.VerifyProof(header, ph, [][]byte{messagesBytes[0], messagesBytes[3]}, proofBytes,
					keys.pubKeyBytes, revealedIndexes)
				require.ErrorIs(t, err, bbs.ErrInvalidProof)
				require.False(t, ok)
			})

			t.Run("wrong index", func(t *testing.T) {
				ok, err := bls.VerifyProof(header, ph, revealedMessages, proofBytes, keys.pubKeyBytes, []int{0, 1})
				require.ErrorIs(t, err, bbs.ErrInvalidProof)
				require.False(t, ok)
			})

			t.Run("index out of range", func(t *testing.T) {
				ok, err := bls.VerifyProof(header, ph, revealedMessages, proofBytes, keys.pubKeyBytes, []int{0, 10})
				require.ErrorIs(t, err, bbs.ErrMalformedProof)
				require.False(t, ok)

				_, err = bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{0, 10})
				require.ErrorIs(t, err, bbs.ErrMalformedProof)
			})

			t.Run("tampered proof bytes", func(t *testing.T) {
				for _, pos := range []int{10, 60, 110, 150, 200, len(proofBytes) - 1} {
					tampered := append([]byte{}, proofBytes...)
					tampered[pos] ^= 0x01

					ok, err := bls.VerifyProof(header, ph, revealedMessages, tampered, keys.pubKeyBytes,
						revealedIndexes)
					require.Error(t, err, "byte %d", pos)
					require.False(t, ok)
				}
			})

			t.Run("unlinkable", func(t *testing.T) {
				other, err := bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, revealedIndexes)
				require.NoError(t, err)
				require.NotEqual(t, proofBytes, other)
			})
		})
	}
}

func TestBBSG2Pub_DisclosedIndexes(t *testing.T) {
	keys := newTestKeys(t, bbs.BLS12381SHA256)
	messagesBytes := default10messages(t)
	bls := bbs.New()

	sigBytes, err := bls.Sign(nil, messagesBytes, keys.privKeyByte)
	require.NoError(t, err)

	t.Run("unsorted with duplicates", func(t *testing.T) {
		proofBytes, err := bls.DeriveProof(nil, nil, messagesBytes, sigBytes, keys.pubKeyBytes, []int{7, 2, 7, 4})
		require.NoError(t, err)
		require.Len(t, proofBytes, 3*48+4*32+7*32)

		ok, err := bls.VerifyProof(nil, nil, pick(messagesBytes, []int{2, 4, 7}), proofBytes, keys.pubKeyBytes,
			[]int{2, 4, 7})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = bls.VerifyProof(nil, nil, pick(messagesBytes, []int{7, 2, 4, 2}), proofBytes, keys.pubKeyBytes,
			[]int{7, 2, 4, 2})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = bls.VerifyProof(nil, nil, pick(messagesBytes, []int{2, 4, 7, 3}), proofBytes, keys.pubKeyBytes,
			[]int{2, 4, 7, 2})
		require.ErrorIs(t, err, bbs.ErrMalformedProof)
		require.False(t, ok)
	})

	t.Run("nothing disclosed", func(t *testing.T) {
		proofBytes, err := bls.DeriveProof(nil, nil, messagesBytes, sigBytes, keys.pubKeyBytes, nil)
		require.NoError(t, err)

		ok, err := bls.VerifyProof(nil, nil, nil, proofBytes, keys.pubKeyBytes, nil)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("everything disclosed", func(t *testing.T) {
		all := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

		proofBytes, err := bls.DeriveProof(nil, nil, messagesBytes, sigBytes, keys.pubKeyBytes, all)
		require.NoError(t, err)
		require.Len(t, proofBytes, 3*48+4*32)

		ok, err := bls.VerifyProof(nil, nil, messagesBytes, proofBytes, keys.pubKeyBytes, all)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("messages and indexes mismatch", func(t *testing.T) {
		proofBytes, err := bls.DeriveProof(nil, nil, messagesBytes, sigBytes, keys.pubKeyBytes, []int{1})
		require.NoError(t, err)

		ok, err := bls.VerifyProof(nil, nil, messagesBytes[:2], proofBytes, keys.pubKeyBytes, []int{1})
		require.ErrorIs(t, err, bbs.ErrMalformedProof)
		require.False(t, ok)
	})

	t.Run("invalid input signature", func(t *testing.T) {
		bad := append([]byte{}, sigBytes...)
		bad[79] ^= 0x01

		_, err := bls.DeriveProof(nil, nil, messagesBytes, bad, keys.pubKeyBytes, []int{1})
		require.ErrorIs(t, err, bbs.ErrInvalidSignature)
	})
}

func TestBBSG2Pub_MockedScalars(t *testing.T) {
	cs := bbs.BLS12381SHAKE256
	keys := newTestKeys(t, cs)
	messagesBytes := default10messages(t)
	header := hexStringToBytesTest(t, testHeader)
	ph := hexStringToBytesTest(t, testPH)

	mocked := cs.MockedRandomScalars(hexStringToBytesTest(t, testMockSeed),
		[]byte(cs.ID()+"H2G_HM2S_MOCK_RANDOM_SCALARS_DST_"))
	bls := bbs.New(bbs.WithCiphersuite(cs), bbs.WithScalarSource(mocked))

	sigBytes, err := bls.Sign(header, messagesBytes, keys.privKeyByte)
	require.NoError(t, err)

	first, err := bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{0, 2, 4, 6})
	require.NoError(t, err)

	second, err := bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{0, 2, 4, 6})
	require.NoError(t, err)
	require.Equal(t, first, second)

	ok, err := bls.VerifyProof(header, ph, pick(messagesBytes, []int{0, 2, 4, 6}), first, keys.pubKeyBytes,
		[]int{0, 2, 4, 6})
	require.NoError(t, err)
	require.True(t, ok)

	third, err := bls.DeriveProof(header, []byte("other"), messagesBytes, sigBytes, keys.pubKeyBytes,
		[]int{0, 2, 4, 6})
	require.NoError(t, err)
	require.NotEqual(t, first, third)

	// a seeded reader gives reproducible proofs as well
	seeded := func() *bbs.BBSG2Pub {
		return bbs.New(bbs.WithCiphersuite(cs), bbs.WithRandomReader(bytes.NewReader(bytes.Repeat([]byte{7}, 48*16))))
	}

	a, err := seeded().DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{1})
	require.NoError(t, err)

	b, err := seeded().DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{1})
	require.NoError(t, err)
	require.Equal(t, a, b)

	_, err = bbs.New(bbs.WithCiphersuite(cs), bbs.WithRandomReader(bytes.NewReader(nil))).
		DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{1})
	require.Error(t, err)
}

func TestBBSG2Pub_Fixtures(t *testing.T) {
	tests := []struct {
		cs              *bbs.Ciphersuite
		pk              string
		signature       string
		singleSignature string
		proof           string
		singleProof     string
	}{
		{
			cs: bbs.BLS12381SHA256,
			pk: "883cb9af983d4bcfce407572ff519e2ce6472445a4aa7a58f4344a35f9a21c0d9a49f697d022a7f084041a39c2476c74" +
				"07b064c1a254544133a45a4de47ae51f7aadb2eee40feed526b1a6b97680f9454b08d5a6d3e46a2ce1cf7b108df9ecb8",
			signature: "82978917276aa5d9a7930152a0e6afaf543bfccf2783c8a71e39095e710ed3615bf9d15b88107840846b2399d49f5eea" +
				"4c23232139f610b44d4b3571e21c443ef7fe97dbdb9ba10f3b5af063cb594fee",
			singleSignature: "a5cd37e7d355ba9a8dab3b4b1c062984b9448a3f288ab98977c9346c75fd4f03f05b298a44d6be2b521fccb4f26dedbb" +
				"6ab51b9e97b88c334df80082f12accdf33ab52aa4c19fa4ca9eee45fbd27132a",
			proof: "a803576d03154167dae6c30b6db25d6caaf83174fd38325442aca75edefc58f18ee4c36953174b23dc9edda00748cb24" +
				"8aaf41f207c36b2bd557d9a0b67aaf442d5bc2da36f1dfaa41ba73df385cb3c0f5428ed559973ba41891d04328b9b9a1" +
				"a51cf1957277406a19a53f5b1bb2b50027e209d7b4f5fd275e2c91d707e198e335dcc126f0badcdf791ceb186d21623e" +
				"4890611f5e217b57f9079fbeac13187e5e8cdaeb125aafc9a7af9b04f58cc95d14a1885ed48943929e794bf8e0010a3c" +
				"19a584f7f73a888f823d45251edf3cb268d94edf200d84930eda96a02f3526527fe63155aae4190bbbd7a542e9fc4834" +
				"4cfc09a13f1bd3a96f1c2087edea6068eea606be31e07773c83c481ffb399f794391cbf83782259e042454b963afd41e" +
				"62ed8f69f7d68e6955b2ea1fd22fa4e52ce961faca1d2f1c06da8f796a3546879321fb22bb743c99ff09f97e232e41de" +
				"511e4f864b945cb83fa550a179b320eb65c44826935268f6c694d4a29b67dcf9561bcaba37e6ec9728af8fde89e560a7" +
				"522d9e3c5e6f597c6761005482bb0069080245e8ce2ea7bde50517cba8a50d6e948da2bc698872351afd7282c69f19f0" +
				"5a0985c4d1ee9a14a1fb3079aec03d67e26c76fd71c90242f3be3f324094f82315edb943e2f09297890b8eef52c1193d" +
				"cc2f6a042a75120e4b4f7ae3039f33fd1e5913b333c78cf9ffa5732efd813670eb6172d9f7daf4b024f3c636006dfa60",
			singleProof: "a2be378fa14e37b352d9530c95cc89436930fb4a3fbe1eb64397244690d40b8ddea9677ec6bf022333f7922efd3ff4c8" +
				"91c017da8553d9df618c3c334643d7c3499924240464f01fe4430c5829c14a19adb1d7cc3fcb1a9bb02acd7726e29b5a" +
				"a3dc67a50dc51698bdd8fa9e06749ce7475d5380ac085e14d2d2e9bbabd45093a73b5981ff880c86981864312f04cbc3" +
				"514cafcfc60c8cc2a8451eaf0d5c3c875b4a1c1e36a55bdcfdfe72a409d33c0342e61d98883666cb01c9b0a11f277404" +
				"c5ad2c20e62a68ba50e6b8aa2326ba621c031409180f05d934f0ca67dd6231690fe5aa29a17b18f607dbd3c8fca7f7f4" +
				"498a21f9ef728d1ee62502f16fe0cc787d153544a3e736f8f35a7408c330d041",
		},
		{
			cs: bbs.BLS12381SHAKE256,
			pk: "a9d8ad624c4dead166c20a46ae6ec0963dc962d80a793f1dcf31867f19e7d810bd9a105c09c468cbf662bf28f89100cd" +
				"10cca125d8f5e91368b8415ce56a96eb98d884225d718efc971c650e4460ef45d31eedffc956a208974038c7e484b8fd",
			signature: "9650abcf0912c53fb85d9a506426d306e3f795d8e6e5a8db79798af1996604f0dc68a02d1cd622e1545a4b3d4611a0cc" +
				"68bf150839e91e1b2e9608c94fbc076016b580e65bc8865e9c46e81ac81e00e6",
			singleSignature: "b883ba90937ce28cc801203ed18f873f4c62978c5dc7c0086a7f2d356f5ecc0d5f4c1f23baa548a24ee80cb0803fa6f9" +
				"527d3a30393451ec7b244d8f8f6d13339f5a8eb55f81b113316ca239cde5cb7a",
			proof: "af9883c6d389f4afed71a6f3eb00ef043568638beda45d447bbed00ea28ef9d7494e6c685bc8166a03c96eb0144cc8b6" +
				"b5193eddcf3eea64d631f944b39bb99bdee6f6964d63617ce6a54a819d5c4230f38d8bdad79ff4ae9142e2d9ccbbe894" +
				"a3ab366d0eff4a4275e2c660dc5a18f9f495eb77b68488cb94cd7f982a691c4f35361e816a545378aabee68b77390d37" +
				"542b1404f9d538647c7c6dbfe11cf201726d2c3d5d1935284c028a2dc9052bed0d23cf766b305e7f700ccf99c2e21824" +
				"700c60fdcc9626f7f119acb6460e374e5b0167bda1652fe6138dd40d5963b4af919dbe6e143a166085aecd117d7e2a87" +
				"624bd6fb5255427d441e0bd6c81541634a16e652e6d38cae787adcf344dbd30211f2fc7f6efc966edcebcc9602782fc0" +
				"bf55f3029c2fd556abaeda6eacce9c9c6a2071871b9456a6ea05c2aedbd077c0598b363d885a8a62121c39a969b20851" +
				"23c0d2fa4f1f3242afbc99ec1cd479a93f60a6883c66069829186b40b55261474b573df229e056a78ea226819bfb699d" +
				"ea80a0d436f60ef603b6002bcedea8763fa0555e04dd1e2019f16acc5a3f9da11a75cf2260ec4f31eb5c9b588ce88149" +
				"5afcc5f2371e8b4d1c856d4925299f6b28ded4765827f1c386dd7a6813c47b443a240faa6eb7a813e8b60493f8edbc84" +
				"de5c93ad92e5eeff80146882062019806428403e9ced1b107449a9c3c47380f91b0fa316a2203c476ea0e7aa14f3f462",
			singleProof: "8e16e411b460cf5b4b37af8dbc51743381d1ac63b65caeda9143b1d7d61f9161273b6743fc007818bb682f4701be80e3" +
				"a6805ccf05c1a42946f1ebf04e0252285f97db3b02d23fa9afbff89e4c3d5564426d0487fa9bf28cee45eafd1069518d" +
				"b813bd3644e84c8ffc3f427842b1b46a6a23fe5b7790766d60652ef4f5cf2c49f3473c3bc598c59210c9c79bf1ba1a27" +
				"0e6de78e2ff9a62833861ffec05f62085338d36f0346e5705fb7906862b045614dec78582807d4b438eab04a1d66dee8" +
				"cd33c943c9f077e671ff374f280def906e6cded2593110ecd4c9dde395e3f5e2a32f2d766da3dc1308d229522ca4b98c" +
				"619b116f4316ebb7144c65776d4147f5e96adb039ee7e1b36d0046d72f64d90d",
		},
	}

	header := hexStringToBytesTest(t, testHeader)
	ph := hexStringToBytesTest(t, testPH)
	messagesBytes := default10messages(t)

	for _, tc := range tests {
		tc := tc
		t.Run(tc.cs.Name(), func(t *testing.T) {
			keys := newTestKeys(t, tc.cs)
			require.Equal(t, tc.pk, hex.EncodeToString(keys.pubKeyBytes))

			mocked := tc.cs.MockedRandomScalars(hexStringToBytesTest(t, testMockSeed),
				[]byte(tc.cs.ID()+"H2G_HM2S_MOCK_RANDOM_SCALARS_DST_"))
			bls := bbs.New(bbs.WithCiphersuite(tc.cs), bbs.WithScalarSource(mocked))

			t.Run("single message", func(t *testing.T) {
				sigBytes, err := bls.Sign(header, messagesBytes[:1], keys.privKeyByte)
				require.NoError(t, err)
				require.Equal(t, tc.singleSignature, hex.EncodeToString(sigBytes))

				proofBytes, err := bls.DeriveProof(header, ph, messagesBytes[:1], sigBytes, keys.pubKeyBytes, []int{0})
				require.NoError(t, err)
				require.Equal(t, tc.singleProof, hex.EncodeToString(proofBytes))

				ok, err := bls.VerifyProof(header, ph, messagesBytes[:1], proofBytes, keys.pubKeyBytes, []int{0})
				require.NoError(t, err)
				require.True(t, ok)
			})

			t.Run("multiple messages", func(t *testing.T) {
				sigBytes, err := bls.Sign(header, messagesBytes, keys.privKeyByte)
				require.NoError(t, err)
				require.Equal(t, tc.signature, hex.EncodeToString(sigBytes))

				ok, err := bls.Verify(header, messagesBytes, hexStringToBytesTest(t, tc.signature), keys.pubKeyBytes)
				require.NoError(t, err)
				require.True(t, ok)

				proofBytes, err := bls.DeriveProof(header, ph, messagesBytes, sigBytes, keys.pubKeyBytes, []int{0, 2})
				require.NoError(t, err)
				require.Equal(t, tc.proof, hex.EncodeToString(proofBytes))

				ok, err = bls.VerifyProof(header, ph, pick(messagesBytes, []int{0, 2}),
					hexStringToBytesTest(t, tc.proof), keys.pubKeyBytes, []int{0, 2})
				require.NoError(t, err)
				require.True(t, ok)
			})
		})
	}
}

func TestParseSignatureProof(t *testing.T) {
	keys := newTestKeys(t, bbs.BLS12381SHA256)
	messagesBytes := default10messages(t)[:3]
	bls := bbs.New()

	sigBytes, err := bls.Sign(nil, messagesBytes, keys.privKeyByte)
	require.NoError(t, err)

	proofBytes, err := bls.DeriveProof(nil, nil, messagesBytes, sigBytes, keys.pubKeyBytes, []int{1})
	require.NoError(t, err)

	proof, err := bbs.ParseSignatureProof(proofBytes)
	require.NoError(t, err)
	require.Equal(t, 2, proof.UndisclosedCount())
	require.Equal(t, proofBytes, proof.ToBytes())

	tests := []struct {
		name  string
		proof []byte
	}{
		{name: "too short", proof: proofBytes[:3*48+4*32-1]},
		{name: "not aligned", proof: append(append([]byte{}, proofBytes...), 0)},
		{name: "identity point", proof: append(bls12381.G1Identity().Compress(), proofBytes[48:]...)},
		{name: "zero scalar", proof: append(append([]byte{}, proofBytes[:3*48]...), make([]byte, len(proofBytes)-3*48)...)},
		{
			name:  "scalar out of range",
			proof: append(append([]byte{}, proofBytes[:len(proofBytes)-32]...), bytes.Repeat([]byte{0xff}, 32)...),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := bbs.ParseSignatureProof(tc.proof)
			require.ErrorIs(t, err, bbs.ErrMalformedProof)

			ok, err := bls.VerifyProof(nil, nil, [][]byte{messagesBytes[1]}, tc.proof, keys.pubKeyBytes, []int{1})
			require.ErrorIs(t, err, bbs.ErrMalformedProof)
			require.False(t, ok)
		})
	}
}

func TestAgeDisclosure(t *testing.T) {
	keys := newTestKeys(t, bbs.BLS12381SHAKE256)
	bls := bbs.New(bbs.WithCiphersuite(bbs.BLS12381SHAKE256))
	messages := [][]byte{[]byte("age:30"), []byte("id:abc123")}

	sigBytes, err := bls.Sign(nil, messages, keys.privKeyByte)
	require.NoError(t, err)

	proofBytes, err := bls.DeriveProof(nil, []byte("nonce"), messages, sigBytes, keys.pubKeyBytes, []int{0})
	require.NoError(t, err)
	require.False(t, bytes.Contains(proofBytes, []byte("abc123")))

	ok, err := bls.VerifyProof(nil, []byte("nonce"), [][]byte{[]byte("age:30")}, proofBytes, keys.pubKeyBytes,
		[]int{0})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = bls.VerifyProof(nil, []byte("nonce"), [][]byte{[]byte("age:31")}, proofBytes, keys.pubKeyBytes,
		[]int{0})
	require.Error(t, err)
	require.False(t, ok)

	ok, err = bls.VerifyProof(nil, []byte("nonce"), [][]byte{[]byte("age:30")}, proofBytes, keys.pubKeyBytes,
		[]int{1})
	require.Error(t, err)
	require.False(t, ok)

	t.Run("disclose id only", func(t *testing.T) {
		idProof, err := bls.DeriveProof(nil, nil, messages, sigBytes, keys.pubKeyBytes, []int{1})
		require.NoError(t, err)

		ok, err := bls.VerifyProof(nil, nil, [][]byte{[]byte("id:abc123")}, idProof, keys.pubKeyBytes, []int{1})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = bls.VerifyProof(nil, nil, [][]byte{[]byte("id:abc123")}, idProof, keys.pubKeyBytes, []int{0})
		require.ErrorIs(t, err, bbs.ErrInvalidProof)
		require.False(t, ok)
	})
}

func TestVerifyNeverPanics(t *testing.T) {
	keys := newTestKeys(t, bbs.BLS12381SHA256)
	bls := bbs.New()

	for i := 0; i < 16; i++ {
		junk := make([]byte, 3*48+4*32+32*(i%3))

		_, err := rand.Read(junk)
		require.NoError(t, err)

		require.NotPanics(t, func() {
			ok, err := bls.VerifyProof(nil, nil, [][]byte{junk[:5]}, junk, keys.pubKeyBytes, []int{i})
			require.Error(t, err)
			require.False(t, ok)

			ok, err = bls.Verify(nil, [][]byte{junk}, junk[:80], keys.pubKeyBytes)
			require.Error(t, err)
			require.False(t, ok)
		})
	}
}
