package sqlite

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

// SeedVendors loads the bundled demo print shops on an empty database. It is
// a no-op when any vendor already exists, so restarts never duplicate data.
func SeedVendors(c *Client) error {
	n, err := c.CountVendors()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, v := range seedVendors() {
		vendor := v
		if err := c.InsertVendor(&vendor); err != nil {
			return fmt.Errorf("failed to seed vendor %q: %w", v.Name, err)
		}
	}

	logger.Info("Seed vendors loaded", zap.Int("count", len(seedVendors())))
	return nil
}

func seedVendors() []models.Vendor {
	capacity := func(n int) *models.Profile {
		return &models.Profile{DailyCapacity: n}
	}

	return []models.Vendor{
		{
			Name:               "프리미엄인쇄",
			Phone:              "02-1234-5678",
			Address:            "서울-중구 을지로 123 프리미엄빌딩 3층",
			Email:              "info@premiumprint.co.kr",
			Description:        "고품질 인쇄 서비스 전문업체. 최신 장비와 숙련된 기술진 보유.",
			Active:             true,
			RegistrationStatus: models.RegistrationCompleted,
			Verified:           true,
			Categories:         []string{"business_card", "banner_large", "poster", "brochure", "sticker"},
			Capabilities: map[string]models.Capability{
				"business_card": {
					Materials: "반누보 186g, 휘라레 216g, 아트지 230g, 스노우지 250g, 벨벳 300g",
					Finishing: "무광 코팅, 유광 코팅, 스팟 UV, 에폭시, 형압, 박",
				},
				"poster": {
					Materials: "일반지, 아트지, 코팅지, 합지",
					Finishing: "무광 코팅, 유광 코팅",
					Sizes:     "A0, A1, A2, A3, A4",
				},
				"sticker": {
					Materials: "일반스티커, 방수스티커, PP, PET",
					Finishing: "유광, 무광",
					Sizes:     "50x50, 100x100, 원형50",
				},
			},
			ProductionTime:  "평균 3일",
			DeliveryOptions: "직접 수령, 택배, 퀵, 화물",
			Profile:         capacity(3000),
		},
		{
			Name:               "빠른인쇄",
			Phone:              "02-2345-6789",
			Address:            "서울-종로 종로 456 빠른빌딩 2층",
			Email:              "contact@fastprint.co.kr",
			Description:        "빠른 납기와 합리적인 가격. 소량 주문부터 대량 주문까지.",
			Active:             true,
			RegistrationStatus: models.RegistrationCompleted,
			Verified:           true,
			Categories:         []string{"business_card", "poster", "sticker"},
			Capabilities: map[string]models.Capability{
				"business_card": {
					Materials: "반누보 186g, 아트지 230g, 스노우지 250g, PP 250gsm",
					Finishing: "무광 코팅, 유광 코팅",
				},
				"poster": {
					Materials: "일반지, 아트지",
					Finishing: "유광 코팅",
					Sizes:     "A2, A3, A4",
				},
			},
			ProductionTime:  "평균 2일",
			DeliveryOptions: "직접 수령, 택배",
			Profile: &models.Profile{
				DailyCapacity: 1500,
				Leadtime: &models.LeadtimeOverride{
					BaseHours:      floatPtr(16),
					RushMultiplier: floatPtr(0.75),
				},
			},
		},
		{
			Name:               "퀄리티인쇄",
			Phone:              "031-3456-7890",
			Address:            "경기-성남 분당구 정자로 789 퀄리티빌딩 4층",
			Email:              "hello@qualityprint.co.kr",
			Description:        "프리미엄 용지와 특수 후가공 전문.",
			Active:             true,
			RegistrationStatus: models.RegistrationCompleted,
			Verified:           false,
			Categories:         []string{"business_card", "banner_large", "poster", "brochure"},
			Capabilities: map[string]models.Capability{
				"business_card": {
					Materials: "스타드림쿼츠 240g, 키칼라아이스골드 230g, 아트지 230g",
					Finishing: "무광 코팅, 유광 코팅, 3D 박, 엠보싱",
				},
				"brochure": {
					Materials: "일반지, 아트지, 코팅지, 합지",
					Finishing: "무광 코팅",
					Sizes:     "A4, A5, B5",
				},
			},
			ProductionTime:  "평균 4일",
			DeliveryOptions: "택배, 화물",
			Profile: &models.Profile{
				DailyCapacity: 2500,
				Pricing: map[string]models.PricingOverride{
					"business_card": {BaseUnitPrice: floatPtr(350)},
				},
			},
		},
		{
			Name:               "스티커전문인쇄",
			Phone:              "02-4567-8901",
			Address:            "서울-강남 테헤란로 456 스티커빌딩 5층",
			Email:              "order@stickerpro.co.kr",
			Description:        "스티커, 라벨, 데칼 전문 제작.",
			Active:             true,
			RegistrationStatus: models.RegistrationCompleted,
			Verified:           true,
			Categories:         []string{"sticker"},
			Capabilities: map[string]models.Capability{
				"sticker": {
					Materials: "일반스티커, 방수스티커, 반사스티커, 전사스티커, 투명스티커",
					Finishing: "유광, 무광, 에폭시",
					Sizes:     "30x30, 50x50, 100x100, 원형30, 원형50, 원형80, 자유형",
				},
			},
			ProductionTime:  "평균 2일",
			DeliveryOptions: "직접 수령, 택배, 퀵",
			Profile:         capacity(5000),
		},
		{
			Name:               "배너전문인쇄",
			Phone:              "02-5678-9012",
			Address:            "서울-마포 합정로 789 배너빌딩 2층",
			Email:              "banner@bannerpro.co.kr",
			Description:        "배너, 현수막, 플래카드, 롤업 대형 출력 전문.",
			Active:             true,
			RegistrationStatus: models.RegistrationCompleted,
			Verified:           false,
			Categories:         []string{"banner", "banner_large"},
			Capabilities: map[string]models.Capability{
				"banner": {
					Materials: "일반천, 메쉬, 타포린",
					Sizes:     "600x1800, 850x2000",
				},
				"banner_large": {
					Materials: "일반천, 타포린",
					Sizes:     "1000x3000, 2000x4000, 맞춤",
				},
			},
			ProductionTime:  "평균 1일",
			DeliveryOptions: "직접 수령, 퀵, 화물",
			Profile: &models.Profile{
				DailyCapacity: 300,
				Leadtime: &models.LeadtimeOverride{
					BaseHours: floatPtr(12),
				},
			},
		},
		{
			Name:               "신규등록인쇄",
			Phone:              "02-6789-0123",
			Address:            "서울-영등포 여의대로 11",
			Email:              "new@newprint.co.kr",
			Description:        "등록 심사 진행 중인 업체.",
			Active:             true,
			RegistrationStatus: "pending",
			Verified:           false,
			Categories:         []string{"business_card"},
			ProductionTime:     "평균 3일",
			DeliveryOptions:    "택배",
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
