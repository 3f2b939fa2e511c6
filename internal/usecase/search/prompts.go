package search

const classifyPrompt = `あなたは飲食店検索システムの一部として、ユーザーの質問を分析するAIです。
以下のユーザークエリから、構造化データ（場所、料理タイプ、価格帯、営業時間など）と
キーワード（雰囲気、特徴など）に分類してください。

ユーザークエリ: %q

以下のJSON形式で出力してください（JSONのみを返してください）:
{
  "structuredData": {
    "location": "場所（例：渋谷、新宿など）",
    "cuisine": ["料理タイプの配列（例：和食、イタリアン、居酒屋など）"],
    "priceRange": {
      "category": "価格カテゴリ（¥、¥¥、¥¥¥、¥¥¥¥のいずれか）"
    },
    "openingHours": {
      "day": "曜日（例：月曜日、土日など）",
      "time": "時間（例：深夜、ランチタイムなど）"
    },
    "features": ["特徴の配列（例：個室あり、禁煙、ペット可など）"],
    "minRating": 0
  },
  "keywords": ["雰囲気や特徴を表すキーワードの配列（例：雰囲気が良い、デート向け、カジュアルなど）"]
}

注意：
- 該当しない項目は空文字列や空配列にしてください
- 「評価の高い」「人気」などの表現があれば minRating を 4.0 にしてください
- 曖昧な表現（例：「良い雰囲気」「おしゃれ」）はkeywordsに含めてください`

const extractPrompt = `あなたは飲食店検索システムの一部として、構造化データをデータベースクエリに変換するAIです。
以下の構造化データから、データベース検索に使用できるパラメータを抽出してください。

構造化データ: %s

以下のJSON形式で出力してください（JSONのみを返してください）:
{
  "area": "検索エリア（例：渋谷、新宿など）",
  "cuisine": ["料理タイプの配列"],
  "priceCategory": "価格カテゴリ（¥、¥¥、¥¥¥、¥¥¥¥のいずれか）",
  "minRating": 0,
  "day": "曜日（例：月曜日、土日など）",
  "openTime": "開店時間（HH:MM形式）",
  "closeTime": "閉店時間（HH:MM形式）",
  "features": ["特徴の配列"]
}

注意：
- 該当しない項目は空文字列や空配列にしてください
- 時間の表現は24時間形式に変換してください
- 「深夜」は「22:00」以降、「ランチタイム」は「11:00-14:00」として解釈してください
- 「安い」「リーズナブル」は「¥」、「高級」は「¥¥¥¥」として解釈してください`

const keywordsPrompt = `あなたは飲食店検索システムの一部として、あいまいなキーワードを検索可能な形式に変換するAIです。
以下のキーワードから、データベース検索に使用できるキーワードを抽出してください。

キーワード: %s

以下のJSON形式で出力してください（JSONのみを返してください）:
{
  "searchableKeywords": ["検索可能なキーワードの配列"]
}

変換例：
- "雰囲気が良い" → ["おしゃれ", "落ち着いた", "雰囲気"]
- "デートにぴったり" → ["デート", "ロマンチック", "二人向け"]
- "カジュアル" → ["カジュアル", "気軽", "普段使い"]
- "高級感がある" → ["高級", "上質", "フォーマル"]
- "美味しい" → ["美味", "絶品", "評判"]

注意：
- 1つのキーワードを2〜4個の具体的な語に展開してください
- 同義語や関連語も含めてください
- 日本語の料理や店舗の特徴を考慮してください`

const composePrompt = `あなたは飲食店検索システムの一部として、検索結果に基づいて推薦文を生成するAIです。
以下のレストラン情報と元のユーザークエリに基づいて、魅力的な推薦文を作成してください。

ユーザークエリ: %q

レストラン情報: %s

以下の要件で推薦文を作成してください：
1. 自然な日本語で200文字程度
2. ユーザーの要望に合った理由を説明
3. レストランの特徴や魅力を簡潔に伝える
4. 親しみやすく、説得力のある文章にする
5. 「以下のレストランがおすすめです」のような結びで終わる

推薦文のみを返してください（JSONや他の形式は不要）：`

const (
	composeFallback      = "「%s」に関するお求めの条件に合うレストランを見つけました。各店舗の特徴や雰囲気を参考に、お気に入りのお店を見つけてください。以下のレストランがおすすめです。"
	composeEmptyFallback = "「%s」に合うレストランは見つかりませんでした。エリアや料理のジャンルなど、条件を少し広げてもう一度お試しください。"
)

// Apology is the message returned with an empty list when the record store fails.
const Apology = "お探しの条件に合うレストランを検索中にエラーが発生しました。申し訳ございませんが、もう一度お試しください。"
