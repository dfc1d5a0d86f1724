package marketing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnknash2025/vrcompanion/internal/models"
)

func testCatalog() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: "vr_headset", Name: "VRヘッドセット Pro", Description: "次世代VR体験を提供", Keywords: []string{"VR", "ゲーム", "テクノロジー"}},
		{ID: "anime_figure", Name: "限定アニメフィギュア", Description: "人気キャラクターの高品質フィギュア", Keywords: []string{"アニメ", "コレクション"}},
		{ID: "music_studio", Name: "音楽制作スタジオ", Description: "プロ級の音楽制作が可能", Keywords: []string{"音楽", "テクノロジー"}},
		{ID: "fashion_avatar", Name: "アバター衣装コレクション", Description: "最新のアバターファッション", Keywords: []string{"ファッション"}},
	}
}

func testProfile(segment models.AudienceSegment, interests ...string) *models.UserProfile {
	return &models.UserProfile{
		UserID:        "user_1",
		Username:      "Alice",
		ActivityLevel: 0.5,
		Interests:     interests,
		Segment:       segment,
	}
}

func testCampaign(template string) *models.Campaign {
	return &models.Campaign{
		CampaignID:      "campaign_20260831_120000",
		Type:            models.CampaignProductLaunch,
		TargetSegment:   models.SegmentNewUsers,
		MessageTemplate: template,
		CallToAction:    "今すぐチェック",
	}
}

func TestCompose_ReplacesTokens(t *testing.T) {
	c := NewComposer(nil)
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("こんにちは{username}さん！"))

	assert.NotNil(t, msg)
	assert.Contains(t, msg.Content, "Alice")
	assert.NotContains(t, msg.Content, "{username}")
}

func TestCompose_UnresolvedPlaceholderStaysVerbatim(t *testing.T) {
	c := NewComposer(nil)
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("hello {unknown_token}"))

	assert.Contains(t, msg.Content, "{unknown_token}")
}

func TestCompose_ForbiddenPhrasesRedacted(t *testing.T) {
	c := NewComposer(nil)
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("buy now! our cheap product, limited time only"))

	for _, forbidden := range forbiddenPhrases {
		assert.NotContains(t, msg.Content, forbidden)
	}
	assert.Contains(t, msg.Content, redactionMarker)
}

func TestCompose_AlwaysHasPreferredEmoji(t *testing.T) {
	c := NewComposer(nil)
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("plain message"))

	found := false
	for _, emoji := range preferredEmojis {
		if strings.Contains(msg.Content, emoji) {
			found = true
		}
	}
	assert.True(t, found, "composed message must carry a preferred emoji")
}

func TestCompose_ExistingEmojiNotDuplicated(t *testing.T) {
	c := NewComposer(nil)
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("新商品です🌟"))

	assert.Equal(t, 1, strings.Count(msg.Content, "🌟"))
	assert.NotContains(t, msg.Content, "✨")
}

func TestCompose_CatalogMatchesByInterest(t *testing.T) {
	c := NewComposer(testCatalog())
	msg := c.Compose(testProfile(models.SegmentActiveUsers, "音楽"), testCampaign("おすすめ情報"))

	assert.Contains(t, msg.Content, "あなたにぴったりの商品:")
	assert.Contains(t, msg.Content, "音楽制作スタジオ")
	assert.NotContains(t, msg.Content, "アニメフィギュア")
}

func TestCompose_CatalogCappedAtThree(t *testing.T) {
	c := NewComposer(testCatalog())
	msg := c.Compose(testProfile(models.SegmentActiveUsers, "VR", "アニメ", "音楽", "ファッション"), testCampaign("おすすめ情報"))

	// four items match but only three may be listed
	assert.Equal(t, 3, strings.Count(msg.Content, "✨ "))
	assert.NotContains(t, msg.Content, "アバター衣装コレクション")
}

func TestCompose_NoCatalogSectionWithoutMatches(t *testing.T) {
	c := NewComposer(testCatalog())
	msg := c.Compose(testProfile(models.SegmentNewUsers), testCampaign("ようこそ"))

	assert.NotContains(t, msg.Content, "あなたにぴったりの商品")
}

func TestCompose_SegmentTone(t *testing.T) {
	c := NewComposer(nil)
	cases := map[models.AudienceSegment]string{
		models.SegmentNewUsers:           "friendly",
		models.SegmentActiveUsers:        "enthusiastic",
		models.SegmentInfluencers:        "excited",
		models.SegmentPotentialCustomers: "helpful",
		models.SegmentLoyalFans:          "loving",
	}
	for segment, tone := range cases {
		msg := c.Compose(testProfile(segment), testCampaign("hi"))
		assert.Equal(t, tone, msg.Emotion, "segment %s", segment)
	}

	msg := c.Compose(testProfile(models.AudienceSegment("unknown")), testCampaign("hi"))
	assert.Equal(t, defaultMessageTone, msg.Emotion)
}

func TestCompose_MessageFields(t *testing.T) {
	c := NewComposer(nil)
	campaign := testCampaign("hi {username}")
	profile := testProfile(models.SegmentLoyalFans, "VR", "ゲーム", "アニメ", "音楽")

	msg := c.Compose(profile, campaign)

	assert.Equal(t, campaign.CampaignID, msg.CampaignID)
	assert.Equal(t, campaign.CallToAction, msg.CallToAction)
	assert.Equal(t, models.SegmentLoyalFans, msg.TargetSegment)
	assert.Equal(t, 3, msg.UrgencyLevel)
	assert.Equal(t, "Alice", msg.PersonalizationTokens["username"])
	// interests token keeps only the top three
	assert.Equal(t, "VR, ゲーム, アニメ", msg.PersonalizationTokens["interests"])
}

func TestCompose_NilCampaignYieldsNoMessage(t *testing.T) {
	c := NewComposer(nil)
	assert.Nil(t, c.Compose(testProfile(models.SegmentNewUsers), nil))
}
